package mdedit

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdedit/internal/fileutil"
	"github.com/alnah/go-mdedit/internal/process"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
}

// pdfOptions holds options for PDF generation.
type pdfOptions struct {
	Page *PageSettings
}

// Paper dimensions in inches, portrait.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// paperDimensions returns width and height in inches for the page settings.
// Unknown or nil settings fall back to portrait letter.
func paperDimensions(page *PageSettings) (width, height float64) {
	if page == nil {
		page = DefaultPageSettings()
	}
	dims, ok := paperSizes[strings.ToLower(page.Size)]
	if !ok {
		dims = paperSizes[PageSizeLetter]
	}
	width, height = dims[0], dims[1]
	if strings.EqualFold(page.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (containers, CI).
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}

	if bin != "" || os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close releases browser resources. Chrome helper processes are killed with
// their process group so none outlive the converter.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.Context(ctx).PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildPDFOptions maps page settings to Chrome's print parameters.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	var page *PageSettings
	if opts != nil {
		page = opts.Page
	}

	width, height := paperDimensions(page)
	margin := DefaultMargin
	if page != nil && page.Margin > 0 {
		margin = page.Margin
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer *rodRenderer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(timeout),
	}
}

// ToPDF writes the document to a temp file so relative file:// resources
// resolve, then prints it.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
