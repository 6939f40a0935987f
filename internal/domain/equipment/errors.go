package equipment

import "errors"

var (
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrAssetTagExists    = errors.New("asset tag already exists in this company")
)
