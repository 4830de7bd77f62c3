package exporter

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/pkg/logger"
)

// PDFOptions contains configuration for PDF generation
type PDFOptions struct {
	// Paper dimensions in inches (Letter: 8.5 x 11)
	PaperWidth  float64
	PaperHeight float64

	// Margins in inches
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	DisplayHeaderFooter bool
	PrintBackground     bool

	// Scale of the webpage rendering (1.0 = 100%)
	Scale float64

	// Timeout bounds browser startup, navigation and printing
	Timeout time.Duration

	// ChromePath overrides chromedp's browser lookup; CHROME_PATH is used when empty
	ChromePath string
}

// DefaultPDFOptions returns default PDF options for US Letter paper
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PaperWidth:  8.5,
		PaperHeight: 11,

		MarginTop:    0.6,
		MarginBottom: 0.6,
		MarginLeft:   0.6,
		MarginRight:  0.6,

		DisplayHeaderFooter: true,
		PrintBackground:     true,
		Scale:               1.0,
		Timeout:             60 * time.Second,
	}
}

// PDFExporter exports reports to PDF format using Chrome headless
type PDFExporter struct {
	options PDFOptions
}

// NewPDFExporter creates a new PDF exporter with default options
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{
		options: DefaultPDFOptions(),
	}
}

// NewPDFExporterWithOptions creates a new PDF exporter with custom options
func NewPDFExporterWithOptions(opts PDFOptions) *PDFExporter {
	return &PDFExporter{
		options: opts,
	}
}

// Options returns the exporter's PDF options
func (e *PDFExporter) Options() PDFOptions {
	return e.options
}

// Export prints the report HTML file to PDF. The document is loaded from
// disk so relative references resolve the same way they do in a browser.
// Print media rules hide the clickwrap modal and lift the content blur.
func (e *PDFExporter) Export(ctx context.Context, doc Document) ([]byte, error) {
	startTime := time.Now()
	runID := zap.String(logger.FieldRunID, doc.Meta.RunID)

	absPath, err := filepath.Abs(doc.HTMLPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve report path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("report HTML is not readable: %w", err)
	}

	logger.Info("[PDF Export] Starting PDF export",
		runID,
		zap.String("html_path", absPath),
		zap.Duration("timeout", e.options.Timeout),
	)

	if e.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.Timeout)
		defer cancel()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug(fmt.Sprintf("[PDF Export] chromedp: "+format, args...))
		}),
	)
	defer browserCancel()

	header, footer := e.generateHeaderFooter(doc)

	var pdfData []byte
	chromeStartTime := time.Now()
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(absPath)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPaperWidth(e.options.PaperWidth).
				WithPaperHeight(e.options.PaperHeight).
				WithMarginTop(e.options.MarginTop).
				WithMarginBottom(e.options.MarginBottom).
				WithMarginLeft(e.options.MarginLeft).
				WithMarginRight(e.options.MarginRight).
				WithDisplayHeaderFooter(e.options.DisplayHeaderFooter).
				WithHeaderTemplate(header).
				WithFooterTemplate(footer).
				WithPrintBackground(e.options.PrintBackground).
				WithScale(e.options.Scale).
				WithPreferCSSPageSize(false).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		logger.Error("[PDF Export] Failed to generate PDF",
			runID,
			zap.Error(err),
			zap.Duration("chrome_duration", time.Since(chromeStartTime)),
		)
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	logger.Info("[PDF Export] PDF export completed successfully",
		runID,
		zap.Int("pdf_size_bytes", len(pdfData)),
		zap.String("pdf_size_human", formatBytes(len(pdfData))),
		zap.Duration("total_duration", time.Since(startTime)),
	)
	return pdfData, nil
}

func (e *PDFExporter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("headless", true),
		// Slow hosts need longer than the default 20s to expose the debugger URL
		chromedp.WSURLReadTimeout(60*time.Second),
	)

	chromePath := e.options.ChromePath
	if chromePath == "" {
		chromePath = os.Getenv("CHROME_PATH")
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	return opts
}

// Name returns the human-readable name of this exporter
func (e *PDFExporter) Name() string {
	return "PDF"
}

// FileExtension returns the file extension for PDF files
func (e *PDFExporter) FileExtension() string {
	return ".pdf"
}

// generateHeaderFooter creates the Chrome header and footer templates.
// Chrome fills elements with the pageNumber and totalPages classes.
func (e *PDFExporter) generateHeaderFooter(doc Document) (header, footer string) {
	name := doc.Meta.ReportName
	if doc.Meta.CompanyName != "" {
		name = doc.Meta.CompanyName + " | " + name
	}
	color := doc.Meta.Brand.Normalized().PrimaryColor

	header = fmt.Sprintf(`<div style="width:100%%; padding:4px 24px; font-size:9px; font-family:Helvetica,Arial,sans-serif; color:%s;">%s</div>`,
		color, html.EscapeString(name))

	footer = `<div style="width:100%; padding:0 24px; font-size:9px; font-family:Helvetica,Arial,sans-serif; color:#666; display:flex; justify-content:space-between;">` +
		`<span>Confidential</span>` +
		`<span>Page <span class="pageNumber"></span> of <span class="totalPages"></span></span>` +
		`</div>`
	return header, footer
}
