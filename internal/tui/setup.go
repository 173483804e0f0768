package tui

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/theirongolddev/ingresos/internal/config"
	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/source"
	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues are the answers of the first-run form.
type SetupValues struct {
	Dataset string
	Theme   string
	Mode    string
	Drill   string
	Speech  bool
}

// SetupValuesFrom seeds the form from the current config.
func SetupValuesFrom(cfg config.Config, dataPath string) SetupValues {
	v := SetupValues{
		Dataset: dataPath,
		Theme:   cfg.Appearance.Theme,
		Mode:    cfg.General.Mode,
		Drill:   strconv.Itoa(cfg.General.DrillLevel),
		Speech:  cfg.Speech.Enabled,
	}
	if v.Theme == "" {
		v.Theme = theme.Hacienda.Name
	}
	if v.Mode == "" {
		v.Mode = string(model.ModeNominal)
	}
	return v
}

// DatasetsNear lists the dataset files in the directory of dataPath, or in
// the working directory when dataPath is empty.
func DatasetsNear(dataPath string) []source.DiscoveredFile {
	dir := "."
	if dataPath != "" {
		dir = filepath.Dir(dataPath)
	}
	files, _ := source.ScanDir(dir)
	return files
}

// NewSetupForm builds the first-run configuration form. When files are
// found the dataset is a choice among them, otherwise a free path.
func NewSetupForm(vals *SetupValues, files []source.DiscoveredFile) *huh.Form {
	var datasetField huh.Field
	if len(files) > 0 {
		opts := make([]huh.Option[string], 0, len(files)+1)
		known := false
		for _, f := range files {
			abs, err := filepath.Abs(f.Path)
			if err != nil {
				abs = f.Path
			}
			if abs == vals.Dataset || f.Path == vals.Dataset {
				vals.Dataset = f.Path
				known = true
			}
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", f.Name, f.Format), f.Path))
		}
		if !known && vals.Dataset != "" {
			opts = append(opts, huh.NewOption(vals.Dataset, vals.Dataset))
		}
		datasetField = huh.NewSelect[string]().
			Title("Conjunto de datos").
			Description("Archivo JSON o SQLite con los ingresos presupuestarios.").
			Options(opts...).
			Value(&vals.Dataset)
	} else {
		datasetField = huh.NewInput().
			Title("Conjunto de datos").
			Description("Ruta a un archivo .json, .db o .sqlite.").
			Value(&vals.Dataset).
			Validate(func(s string) error {
				if _, ok := source.FormatOf(s); !ok {
					return fmt.Errorf("formato no reconocido: %s", s)
				}
				return nil
			})
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, th := range theme.All {
		themeOpts[i] = huh.NewOption(th.Label, th.Name)
	}

	drillOpts := make([]huh.Option[string], 0, 6)
	for d := 1; d <= 6; d++ {
		drillOpts = append(drillOpts, huh.NewOption(fmt.Sprintf("Nivel %d", d), strconv.Itoa(d)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Bienvenido a ingresos").
				Description("Configura el tablero de Ingresos Presupuestarios.\nPuedes repetirlo con `ingresos setup`."),
			datasetField,
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tema").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewSelect[string]().
				Title("Valores").
				Options(
					huh.NewOption("Nominales (pesos corrientes)", string(model.ModeNominal)),
					huh.NewOption("Reales (pesos constantes)", string(model.ModeReal)),
				).
				Value(&vals.Mode),
			huh.NewSelect[string]().
				Title("Nivel de despliegue inicial").
				Options(drillOpts...).
				Value(&vals.Drill),
			huh.NewConfirm().
				Title("¿Habilitar lectura en voz alta?").
				Affirmative("Sí").
				Negative("No").
				Value(&vals.Speech),
		),
	).WithTheme(huh.ThemeBase())
}

// ApplySetup copies the form answers into cfg.
func ApplySetup(cfg *config.Config, v SetupValues) {
	if v.Dataset != "" {
		if abs, err := filepath.Abs(v.Dataset); err == nil {
			v.Dataset = abs
		}
		cfg.General.Dataset = v.Dataset
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	}
	if m, err := model.ParseMode(v.Mode); err == nil {
		cfg.General.Mode = string(m)
	}
	if d, err := strconv.Atoi(v.Drill); err == nil && d >= 1 && d <= 6 {
		cfg.General.DrillLevel = d
	}
	cfg.Speech.Enabled = v.Speech
}
