package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/piwi3910/RailCut/internal/engine"
	"github.com/piwi3910/RailCut/internal/export"
	"github.com/piwi3910/RailCut/internal/importer"
	"github.com/piwi3910/RailCut/internal/model"
	"github.com/piwi3910/RailCut/internal/project"
	"github.com/spf13/cobra"
)

// planOpts holds the flags of the plan command.
type planOpts struct {
	pdf    string // plan drawing
	xlsx   string // cut list workbook
	dxf    string // piece elevations
	labels string // QR cut labels
	json   string // plan document, "-" for stdout

	stockLength float64   // overrides the config when set
	kerf        float64   // overrides the config when set
	compare     []float64 // alternative stock lengths to compare

	// Used only for pieces tables, which carry no request settings.
	infill       string
	fixation     string
	plateDims    string
	plateHoles   string
	platePitches string
}

func newPlanCmd(opts *options) *cobra.Command {
	var po planOpts

	cmd := &cobra.Command{
		Use:   "plan <request.json|pieces.csv|pieces.xlsx>",
		Short: "Compute a fabrication plan and write drawings and cut lists",
		Long: `Compute a fabrication plan from a JSON request, or from a CSV or Excel
table of pieces combined with the default form values of the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts, args[0], &po)
		},
	}

	cmd.Flags().StringVar(&po.pdf, "pdf", "", "write the plan drawing to this PDF file")
	cmd.Flags().StringVar(&po.xlsx, "xlsx", "", "write the cut list to this Excel file")
	cmd.Flags().StringVar(&po.dxf, "dxf", "", "write piece elevations to this DXF file")
	cmd.Flags().StringVar(&po.labels, "labels", "", "write QR cut labels to this PDF file")
	cmd.Flags().StringVar(&po.json, "json", "", "write the plan as JSON to this file, or - for stdout")
	cmd.Flags().Float64Var(&po.stockLength, "stock-length", 0, "stock bar length in mm, 0 to skip nesting (default from config)")
	cmd.Flags().Float64Var(&po.kerf, "kerf", 0, "saw kerf in mm (default from config)")
	cmd.Flags().Float64SliceVar(&po.compare, "compare-stock", nil, "compare nesting with these stock lengths, e.g. 5000,6500")
	cmd.Flags().StringVar(&po.infill, "infill", string(model.InfillVertical), "infill for pieces tables: vertical or horizontal")
	cmd.Flags().StringVar(&po.fixation, "fixation", "", "fixation for pieces tables, plate for a base plate")
	cmd.Flags().StringVar(&po.plateDims, "plate-dims", "", "plate dimensions, e.g. 200x200x10")
	cmd.Flags().StringVar(&po.plateHoles, "plate-holes", "", "plate holes, e.g. \"4 x 14\"")
	cmd.Flags().StringVar(&po.platePitches, "plate-pitches", "", "plate hole pitches, e.g. 160x160")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *options, path string, po *planOpts) error {
	logger := loggerFromContext(cmd.Context())
	out := cmd.OutOrStdout()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	req, err := loadPlanRequest(cmd, cfg, path, po)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	p := newProgress(logger)
	plan, err := engine.Process(req)
	if err != nil {
		return err
	}
	p.done("Plan computed", "pieces", len(plan.Pieces))

	stock := cfg.Stock
	if cmd.Flags().Changed("stock-length") {
		stock.Length = po.stockLength
	}
	if cmd.Flags().Changed("kerf") {
		stock.Kerf = po.kerf
	}
	plan.Stock = engine.NewNester(stock).Nest(plan)
	for _, s := range plan.Stock {
		for _, c := range s.Unplaced {
			logger.Warn("Cut longer than stock", "item", c.Label, "profile", s.Profile, "length", c.Length)
		}
	}

	// With the plan JSON on stdout, the summary goes to stderr so stdout
	// stays parseable.
	jsonPath := po.json
	if jsonPath == "-" {
		jsonPath = ""
		if err := writePlanJSON(out, plan); err != nil {
			return err
		}
		out = cmd.ErrOrStderr()
	} else {
		printPlan(out, plan)
		if len(plan.Stock) > 0 {
			printStock(out, plan.Stock, stock.MinOffcut)
		}
		if len(po.compare) > 0 {
			printComparison(out, engine.CompareScenarios(engine.BuildStockScenarios(stock, po.compare), plan))
		}
	}

	outputs := []struct {
		path  string
		write func(string, model.Plan) error
	}{
		{po.pdf, export.ExportPlanPDF},
		{po.xlsx, export.ExportCutListXLSX},
		{po.dxf, export.WriteElevationDXF},
		{po.labels, export.ExportLabels},
		{jsonPath, project.SavePlan},
	}
	var written []string
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		logger.Debug("Writing output", "path", o.path)
		if err := o.write(o.path, plan); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.path, err)
		}
		written = append(written, o.path)
	}

	if len(written) > 0 {
		printSuccess(out, "Wrote %d file(s)", len(written))
		for _, w := range written {
			printFile(out, w)
		}
	}
	return nil
}

// loadPlanRequest reads a JSON request as is, or builds one from a pieces
// table and the configured defaults.
func loadPlanRequest(cmd *cobra.Command, cfg model.AppConfig, path string, po *planOpts) (model.Request, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return project.LoadRequest(path)
	case ".csv":
		result = importer.ImportCSV(path)
	case ".xlsx":
		result = importer.ImportExcel(path)
	default:
		return model.Request{}, fmt.Errorf("unsupported input %s: expected .json, .csv or .xlsx", filepath.Base(path))
	}

	logger := loggerFromContext(cmd.Context())
	for _, w := range result.Warnings {
		logger.Debug(w)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			printWarning(cmd.ErrOrStderr(), e)
		}
		return model.Request{}, errors.New("failed to import " + filepath.Base(path))
	}

	draft := cfg.NewFormDraft()
	draft.Pieces = result.Pieces
	draft.PieceCount = len(result.Pieces)

	req := draft.ToRequest(model.ParseInfillMode(po.infill), po.fixation)
	req.PlateDimensions = po.plateDims
	req.PlateHoles = po.plateHoles
	req.PlatePitches = po.platePitches
	return req, nil
}

func writePlanJSON(w io.Writer, plan model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
