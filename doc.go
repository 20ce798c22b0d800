// Package mdedit is the backend of a markdown editor: a live HTML preview,
// word counts, and export to standalone HTML or PDF.
//
// # Conversion
//
// Convert is the core. It runs an ordered list of pattern substitutions
// over the whole source and never fails:
//
//	html := mdedit.Convert("# Title\n\n**bold** and *italic*")
//	// <h1>Title</h1><p><strong>bold</strong> and <em>italic</em></p>
//
// The rules cover headings (#, ##, ###), blockquote lines, single-line list
// items, bold, italic, strikethrough, images, links, inline code and fenced
// code. Constructs the rules do not recognize pass through literally.
//
// # Converter
//
// A Converter adds the optional parts around Convert: an alternative
// CommonMark renderer, syntax highlighting, and document export.
//
//	conv, err := mdedit.NewConverter(
//	    mdedit.WithHighlighting("monokai"),
//	    mdedit.WithStyle("technical"),
//	    mdedit.WithTitle("Notes"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	res, err := conv.Export(ctx, mdedit.ExportInput{
//	    Markdown:  content,
//	    SourceDir: "/path/to/markdown", // for relative image paths
//	    PDF:       true,
//	    Page:      &mdedit.PageSettings{Size: "a4", Orientation: "portrait", Margin: 0.5},
//	})
//
// PDF export prints the HTML document with headless Chrome (go-rod). Set
// ROD_BROWSER_BIN to use an installed browser.
//
// # Editor
//
// Editor keeps one session: the source, its preview, and the save and
// export actions that produce Artifacts (document.md, document.html,
// document.pdf).
//
// # Parallel Processing
//
// For batch export, ConverterPool hands out converters that each own a
// browser:
//
//	pool := mdedit.NewConverterPool(mdedit.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
package mdedit
