package implementation

import (
	"gorm.io/gorm"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
