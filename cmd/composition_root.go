package cmd

import (
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	var f commands.JobUoWFactory = FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateJobCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateVehicleCommandHandler() commands.CreateVehicleCommandHandler {
	var f commands.VehicleUoWFactory = FuncVehicleUoWFactory(func() commands.VehicleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateVehicleCommandHandler(f)
}

func (c *CompositionRoot) CreateAssignVehicleCommandHandler() commands.AssignVehicleCommandHandler {
	var f commands.AssignUoWFactory = FuncAssignUoWFactory(func() commands.AssignUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignVehicleCommandHandler(f)
}

func (c *CompositionRoot) CreateUnassignVehicleCommandHandler() commands.UnassignVehicleCommandHandler {
	var f commands.AssignUoWFactory = FuncAssignUoWFactory(func() commands.AssignUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUnassignVehicleCommandHandler(f)
}

func (c *CompositionRoot) CreateChangeJobStatusCommandHandler() commands.ChangeJobStatusCommandHandler {
	var f commands.StatusUoWFactory = FuncStatusUoWFactory(func() commands.StatusUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeJobStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateCheckAvailabilityQueryHandler() queries.CheckAvailabilityQueryHandler {
	return queries.NewCheckAvailabilityQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStatusHistoryQueryHandler() queries.GetStatusHistoryQueryHandler {
	return queries.NewGetStatusHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllowedTransitionsQueryHandler() queries.GetAllowedTransitionsQueryHandler {
	return queries.NewGetAllowedTransitionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOverdueJobsQueryHandler() queries.GetOverdueJobsQueryHandler {
	return queries.NewGetOverdueJobsQueryHandler(c.gormDB)
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncVehicleUoWFactory func() commands.VehicleUoW

func (f FuncVehicleUoWFactory) Create() commands.VehicleUoW {
	return f()
}

type FuncStatusUoWFactory func() commands.StatusUoW

func (f FuncStatusUoWFactory) Create() commands.StatusUoW {
	return f()
}

type FuncAssignUoWFactory func() commands.AssignUoW

func (f FuncAssignUoWFactory) Create() commands.AssignUoW {
	return f()
}
