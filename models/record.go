package models

// RecordColumns is the canonical column order of the DLD units dataset. Every
// snapshot must carry exactly these 46 columns; the importer stores all of
// them as TEXT so no value is lost to type coercion.
var RecordColumns = []string{
	"property_id",
	"parent_property_id",
	"grandparent_property_id",
	"creation_date",
	"munc_number",
	"munc_zip_code",
	"parcel_id",
	"is_free_hold",
	"is_lease_hold",
	"is_registered",
	"pre_registration_number",
	"master_project_id",
	"master_project_en",
	"master_project_ar",
	"project_id",
	"project_name_en",
	"project_name_ar",
	"project_number",
	"land_type_id",
	"land_type_en",
	"land_type_ar",
	"land_number",
	"land_sub_number",
	"building_number",
	"unit_number",
	"unit_balcony_area",
	"unit_parking_number",
	"parking_allocation_type",
	"parking_allocation_type_en",
	"parking_allocation_type_ar",
	"common_area",
	"actual_common_area",
	"actual_area",
	"floor",
	"rooms",
	"rooms_en",
	"rooms_ar",
	"zone_id",
	"area_id",
	"area_name_en",
	"area_name_ar",
	"property_type_id",
	"property_type_en",
	"property_type_ar",
	"property_sub_type_en",
	"property_sub_type_ar",
}

// RegistrationRecord is one row of the units dataset. All fields are opaque
// text, in RecordColumns order. Records are immutable once loaded; their
// lifetime is tied to the snapshot they were read from.
type RegistrationRecord struct {
	PropertyID              string `json:"property_id"`
	ParentPropertyID        string `json:"parent_property_id"`
	GrandparentPropertyID   string `json:"grandparent_property_id"`
	CreationDate            string `json:"creation_date"`
	MuncNumber              string `json:"munc_number"`
	MuncZipCode             string `json:"munc_zip_code"`
	ParcelID                string `json:"parcel_id"`
	IsFreeHold              string `json:"is_free_hold"`
	IsLeaseHold             string `json:"is_lease_hold"`
	IsRegistered            string `json:"is_registered"`
	PreRegistrationNumber   string `json:"pre_registration_number"`
	MasterProjectID         string `json:"master_project_id"`
	MasterProjectEn         string `json:"master_project_en"`
	MasterProjectAr         string `json:"master_project_ar"`
	ProjectID               string `json:"project_id"`
	ProjectNameEn           string `json:"project_name_en"`
	ProjectNameAr           string `json:"project_name_ar"`
	ProjectNumber           string `json:"project_number"`
	LandTypeID              string `json:"land_type_id"`
	LandTypeEn              string `json:"land_type_en"`
	LandTypeAr              string `json:"land_type_ar"`
	LandNumber              string `json:"land_number"`
	LandSubNumber           string `json:"land_sub_number"`
	BuildingNumber          string `json:"building_number"`
	UnitNumber              string `json:"unit_number"`
	UnitBalconyArea         string `json:"unit_balcony_area"`
	UnitParkingNumber       string `json:"unit_parking_number"`
	ParkingAllocationType   string `json:"parking_allocation_type"`
	ParkingAllocationTypeEn string `json:"parking_allocation_type_en"`
	ParkingAllocationTypeAr string `json:"parking_allocation_type_ar"`
	CommonArea              string `json:"common_area"`
	ActualCommonArea        string `json:"actual_common_area"`
	ActualArea              string `json:"actual_area"`
	Floor                   string `json:"floor"`
	Rooms                   string `json:"rooms"`
	RoomsEn                 string `json:"rooms_en"`
	RoomsAr                 string `json:"rooms_ar"`
	ZoneID                  string `json:"zone_id"`
	AreaID                  string `json:"area_id"`
	AreaNameEn              string `json:"area_name_en"`
	AreaNameAr              string `json:"area_name_ar"`
	PropertyTypeID          string `json:"property_type_id"`
	PropertyTypeEn          string `json:"property_type_en"`
	PropertyTypeAr          string `json:"property_type_ar"`
	PropertySubTypeEn       string `json:"property_sub_type_en"`
	PropertySubTypeAr       string `json:"property_sub_type_ar"`
}

// ScanDest returns scan destinations in RecordColumns order.
func (r *RegistrationRecord) ScanDest() []any {
	return []any{
		&r.PropertyID,
		&r.ParentPropertyID,
		&r.GrandparentPropertyID,
		&r.CreationDate,
		&r.MuncNumber,
		&r.MuncZipCode,
		&r.ParcelID,
		&r.IsFreeHold,
		&r.IsLeaseHold,
		&r.IsRegistered,
		&r.PreRegistrationNumber,
		&r.MasterProjectID,
		&r.MasterProjectEn,
		&r.MasterProjectAr,
		&r.ProjectID,
		&r.ProjectNameEn,
		&r.ProjectNameAr,
		&r.ProjectNumber,
		&r.LandTypeID,
		&r.LandTypeEn,
		&r.LandTypeAr,
		&r.LandNumber,
		&r.LandSubNumber,
		&r.BuildingNumber,
		&r.UnitNumber,
		&r.UnitBalconyArea,
		&r.UnitParkingNumber,
		&r.ParkingAllocationType,
		&r.ParkingAllocationTypeEn,
		&r.ParkingAllocationTypeAr,
		&r.CommonArea,
		&r.ActualCommonArea,
		&r.ActualArea,
		&r.Floor,
		&r.Rooms,
		&r.RoomsEn,
		&r.RoomsAr,
		&r.ZoneID,
		&r.AreaID,
		&r.AreaNameEn,
		&r.AreaNameAr,
		&r.PropertyTypeID,
		&r.PropertyTypeEn,
		&r.PropertyTypeAr,
		&r.PropertySubTypeEn,
		&r.PropertySubTypeAr,
	}
}

// Key returns a stable identifier used to break score ties and to
// deduplicate rows returned by overlapping filters.
func (r *RegistrationRecord) Key() string {
	return r.PropertyID + "|" + r.UnitNumber + "|" + r.LandNumber
}
