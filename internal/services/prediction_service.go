package services

import (
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/store"
	"busline/internal/utils"
)

// PredictionService stores demand forecast records. The forecasting
// math itself lives outside this system; this only keeps the records
// and derives accuracy once actual demand is known.
type PredictionService struct {
	Store store.Store
}

func (s PredictionService) Create(p models.DemandPrediction) (models.DemandPrediction, error) {
	parsed, err := utils.ParseDate(p.Date)
	if err != nil {
		return models.DemandPrediction{}, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	p.Date = utils.FormatDate(parsed)
	return s.Store.CreatePrediction(p)
}

func (s PredictionService) RecordActual(id string, actual int) (models.DemandPrediction, error) {
	return s.Store.RecordPredictionActual(id, actual)
}

func (s PredictionService) ListByRoute(routeID string) ([]models.DemandPrediction, error) {
	return s.Store.ListPredictionsByRoute(routeID)
}
