package persistence

import (
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence/models"
)

func ToDomainModel(dbModel *models.Model) *model.Model {
	opts := []model.Option{
		model.WithID(dbModel.ID),
		model.WithCreatedAt(dbModel.CreatedAt),
		model.WithUpdatedAt(dbModel.UpdatedAt),
	}
	if dbModel.OPDBID.Valid {
		opts = append(opts, model.WithOPDBID(dbModel.OPDBID.String))
	}
	return model.New(
		dbModel.Name,
		dbModel.Manufacturer,
		dbModel.Year,
		model.Type(dbModel.MachineType),
		opts...,
	)
}

func ToDomainLocation(dbLocation *models.Location) *location.Location {
	return location.New(
		dbLocation.OrganizationID,
		dbLocation.Name,
		dbLocation.Street,
		dbLocation.City,
		location.WithID(dbLocation.ID),
		location.WithCreatedAt(dbLocation.CreatedAt),
		location.WithUpdatedAt(dbLocation.UpdatedAt),
	)
}

func ToDomainMachine(dbMachine *models.Machine, mdl *model.Model, loc *location.Location) *machine.Machine {
	opts := []machine.Option{
		machine.WithID(dbMachine.ID),
		machine.WithQRToken(dbMachine.QRToken),
		machine.WithCreatedAt(dbMachine.CreatedAt),
		machine.WithUpdatedAt(dbMachine.UpdatedAt),
	}
	if dbMachine.OwnerID.Valid {
		opts = append(opts, machine.WithOwnerID(dbMachine.OwnerID.String))
	}
	if mdl != nil {
		opts = append(opts, machine.WithModel(mdl))
	}
	if loc != nil {
		opts = append(opts, machine.WithLocation(loc))
	}
	return machine.New(
		dbMachine.OrganizationID,
		dbMachine.ModelID,
		dbMachine.LocationID,
		opts...,
	)
}
