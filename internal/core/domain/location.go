package domain

// Static Philippine geographic reference data. The workflow only reads these;
// submissions snapshot the names at creation time.

type Region struct {
	ID   string
	Code string
	Name string
}

type Province struct {
	ID       string
	RegionID string
	Name     string
}

type Municipality struct {
	ID         string
	ProvinceID string
	Name       string
}

type Barangay struct {
	ID             string
	MunicipalityID string
	Name           string
}
