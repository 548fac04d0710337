package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/ctsort/internal/dicomread"
	"github.com/Iron-Ham/ctsort/internal/label"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/plane"
	"github.com/Iron-Ham/ctsort/internal/reconcile"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>...",
	Short: "Show how individual slices would be categorized",
	Long: `Print the plane signals of one or more DICOM files: the result of both
classifier strategies, the plane named by the series description, and the
final placement. Nothing is copied.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// Diagnosis is the classify report for one file.
type Diagnosis struct {
	Path         string
	Err          error
	Missing      []string
	Description  string
	CrossProduct plane.Plane
	Rounded      plane.Plane
	Result       reconcile.Result
	Shape        dicomread.Shape
}

// diagnose reads path and resolves it the way the categorizer would with
// primary as the geometric classifier.
func diagnose(reader dicomread.Reader, primary orientation.Classifier, path string) Diagnosis {
	d := Diagnosis{Path: path}
	meta, err := reader.Read(path)
	if err != nil {
		d.Err = err
		return d
	}
	d.Shape, _ = meta.PixelShape.Get()
	d.Description, _ = meta.SeriesDescription.Get()

	if !meta.Classifiable() {
		d.Missing = meta.Missing()
		return d
	}

	cosines, _ := meta.Orientation.Get()
	d.CrossProduct = orientation.CrossProduct{}.Classify(cosines)
	d.Rounded = orientation.RoundedPattern{}.Classify(cosines)
	d.Result = reconcile.New(primary).Reconcile(cosines, d.Description, label.NewFrequencyTable())
	return d
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := loadConfigOrDefault()
	primary, err := orientation.New(orientation.Strategy(cfg.Classifier.Strategy))
	if err != nil {
		return err
	}

	reader := dicomread.NewFileReader()
	out := cmd.OutOrStdout()
	for _, path := range args {
		renderDiagnosis(out, diagnose(reader, primary, path))
	}
	return nil
}

func renderDiagnosis(w io.Writer, d Diagnosis) {
	fmt.Fprintln(w, titleStyle.Render(d.Path))
	switch {
	case d.Err != nil:
		fmt.Fprintln(w, "  "+errorStyle.Render("corrupt: "+d.Err.Error()))
	case len(d.Missing) > 0:
		fmt.Fprintln(w, "  "+warningStyle.Render("skipped, missing "+strings.Join(d.Missing, ", ")))
	default:
		fmt.Fprintf(w, "  %s%s\n", labelStyle.Width(16).Render("description"), d.Description)
		fmt.Fprintf(w, "  %s%s\n", labelStyle.Width(16).Render("cross_product"), d.CrossProduct)
		fmt.Fprintf(w, "  %s%s\n", labelStyle.Width(16).Render("rounded_pattern"), d.Rounded)
		fmt.Fprintf(w, "  %s%s\n", labelStyle.Width(16).Render("label"), d.Result.Label)

		final := successStyle.Render(d.Result.Final.String())
		switch {
		case !d.Result.Stored():
			final = errorStyle.Render(d.Result.Final.String() + " (not stored)")
		case d.Result.Mismatch:
			final = warningStyle.Render(d.Result.Final.String() + " (label disagrees with geometry)")
		case d.Result.MissingLabel:
			final = warningStyle.Render(d.Result.Final.String() + " (from geometry)")
		}
		fmt.Fprintf(w, "  %s%s\n", labelStyle.Width(16).Render("placement"), final)
		if d.CrossProduct != d.Rounded {
			fmt.Fprintln(w, "  "+warningStyle.Render("classifier strategies disagree"))
		}
	}
	if len(d.Shape) > 0 {
		fmt.Fprintf(w, "  %s%s\n", labelStyle.Width(16).Render("shape"), d.Shape)
	}
}
