package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"droscher.com/OhioBrewPath/pkg/model"
)

// Migrate creates or updates the breweries table.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&model.Brewery{})
}

// UpsertBreweries writes the records keyed on detail_url, so repeated
// exports converge on the same rows. Record ids come from the store and
// are written as-is.
func (r *Repository) UpsertBreweries(ctx context.Context, breweries []*model.Brewery) error {
	if len(breweries) == 0 {
		return nil
	}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "detail_url"}},
		UpdateAll: true,
	}).Create(&breweries)

	return result.Error
}

// GetBreweries returns all exported records ordered by id.
func (r *Repository) GetBreweries(ctx context.Context) ([]*model.Brewery, error) {
	var breweries []*model.Brewery

	if result := r.DB.WithContext(ctx).Order("id").Find(&breweries); result.Error != nil {
		return nil, result.Error
	}

	return breweries, nil
}
