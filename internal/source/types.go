package source

// RawDataset is the JSON document holding the revenue dataset. The
// datosHacendarios/datosDeflactores/datosMacro names used by the web
// bundle are accepted as aliases.
type RawDataset struct {
	Items      []RawItem                  `json:"items"`
	Deflators  map[int]float64            `json:"deflactores"`
	Macro      map[int]map[string]float64 `json:"macro"`
	AltItems   []RawItem                  `json:"datosHacendarios,omitempty"`
	AltDeflate map[int]float64            `json:"datosDeflactores,omitempty"`
	AltMacro   map[int]map[string]float64 `json:"datosMacro,omitempty"`
}

// RawItem is one revenue line as stored on disk.
type RawItem struct {
	ID       int                   `json:"id"`
	Concepto string                `json:"concepto"`
	Nivel    int                   `json:"nivel"`
	Datos    map[int]RawYearRecord `json:"datos"`
}

// RawYearRecord holds the per-year figures. null and absent both decode to nil.
type RawYearRecord struct {
	Obs  *float64 `json:"obs,omitempty"`
	Prog *float64 `json:"prog,omitempty"`
}

// DatasetFormat identifies how a dataset file is stored.
type DatasetFormat string

const (
	FormatJSON   DatasetFormat = "json"
	FormatSQLite DatasetFormat = "sqlite"
)

// DiscoveredFile is a dataset candidate found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Name   string
	Format DatasetFormat
}
