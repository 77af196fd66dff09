package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use-case handlers. Handler constructors
// that take policy knobs validate them, so the Create methods return errors.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) CreateDispatchAssignmentCommandHandler() (commands.DispatchAssignmentCommandHandler, error) {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchAssignmentCommandHandler(f, c.config.BroadcastRadiusKm, c.config.RecencyWindow)
}

func (c *CompositionRoot) CreateClaimAssignmentCommandHandler() (commands.ClaimAssignmentCommandHandler, error) {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewClaimAssignmentCommandHandler(f, c.config.RatePerKm)
}

func (c *CompositionRoot) CreateCompleteAssignmentCommandHandler() commands.CompleteAssignmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteAssignmentCommandHandler(f)
}

func (c *CompositionRoot) CreateSweepExpiredCommandHandler(logger *slog.Logger) (commands.SweepExpiredCommandHandler, error) {
	var f commands.SweepUoWFactory = FuncSweepUoWFactory(func() commands.SweepUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSweepExpiredCommandHandler(f, c.config.ExpiryWindow, c.config.NoResponsePenalty, logger)
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateWithdrawCommandHandler() commands.WithdrawCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewWithdrawCommandHandler(f)
}

func (c *CompositionRoot) CreateGetNearbyCouriersQueryHandler() (queries.GetNearbyCouriersQueryHandler, error) {
	return queries.NewGetNearbyCouriersQueryHandler(c.gormDB, c.config.BroadcastRadiusKm, c.config.RecencyWindow)
}

func (c *CompositionRoot) CreateGetCourierAssignmentsQueryHandler() (queries.GetCourierAssignmentsQueryHandler, error) {
	return queries.NewGetCourierAssignmentsQueryHandler(c.gormDB, c.config.ExpiryWindow)
}

func (c *CompositionRoot) CreateGetCourierEarningsQueryHandler() queries.GetCourierEarningsQueryHandler {
	return queries.NewGetCourierEarningsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryStatsQueryHandler() queries.GetDeliveryStatsQueryHandler {
	return queries.NewGetDeliveryStatsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLiveLocationQueryHandler() queries.GetLiveLocationQueryHandler {
	return queries.NewGetLiveLocationQueryHandler(c.gormDB)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncSweepUoWFactory func() commands.SweepUoW

func (f FuncSweepUoWFactory) Create() commands.SweepUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
