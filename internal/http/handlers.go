// Package http is the thin HTTP shell over the core services. Handlers
// parse parameters and map error categories to status codes; all business
// logic stays in internal/service.
package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/service"
)

func Register(app *fiber.App, svcs *service.Services) {
	app.Post("/devices", func(c *fiber.Ctx) error {
		var in service.RegisterDeviceInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		id, err := svcs.Devices.Register(in)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	app.Get("/devices", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Devices.List())
	})

	app.Get("/devices/:id", func(c *fiber.Ctx) error {
		dev, err := svcs.Devices.FindByID(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(dev)
	})

	app.Put("/devices/:id/status", func(c *fiber.Ctx) error {
		var in struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		if err := svcs.Devices.UpdateStatus(c.Params("id"), in.Status); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": in.Status})
	})

	app.Post("/devices/:id/maintenance", func(c *fiber.Ctx) error {
		var in service.ScheduleMaintenanceInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		in.DeviceID = c.Params("id")
		id, err := svcs.Devices.ScheduleMaintenance(in)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	app.Post("/devices/:id/readings", func(c *fiber.Ctx) error {
		var in service.RecordReadingInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		in.DeviceID = c.Params("id")
		id, err := svcs.Readings.Record(in)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	app.Get("/devices/:id/analysis", func(c *fiber.Ctx) error {
		analysis, err := svcs.Analyzer.AnalyzeConsumption(c.Params("id"), c.QueryInt("days", 7))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(analysis)
	})

	app.Get("/devices/:id/peak-valley", func(c *fiber.Ctx) error {
		analysis, err := svcs.Analyzer.AnalyzePeakValley(c.Params("id"), c.QueryInt("days", 7))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(analysis)
	})

	app.Get("/devices/:id/prediction", func(c *fiber.Ctx) error {
		prediction, err := svcs.Analyzer.Predict(c.Params("id"), c.QueryInt("hours", 24))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(prediction)
	})

	app.Get("/devices/:id/rating", func(c *fiber.Ctx) error {
		rating, err := svcs.Analyzer.Rate(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(rating)
	})

	app.Get("/devices/:id/cost/daily", func(c *fiber.Ctx) error {
		date, err := queryDate(c)
		if err != nil {
			return badRequest(c, err)
		}
		dc, err := svcs.Costs.ComputeDailyCost(c.Params("id"), date)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(dc)
	})

	app.Post("/devices/:id/cost/daily", func(c *fiber.Ctx) error {
		date, err := queryDate(c)
		if err != nil {
			return badRequest(c, err)
		}
		dc, err := svcs.Costs.RecordDailyCost(c.Params("id"), date)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dc)
	})

	app.Get("/devices/:id/cost/monthly", func(c *fiber.Ctx) error {
		now := time.Now()
		mc, err := svcs.Costs.MonthlyCostFor(c.Params("id"),
			c.QueryInt("year", now.Year()), c.QueryInt("month", int(now.Month())))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(mc)
	})

	app.Get("/budgets/:department/variance", func(c *fiber.Ctx) error {
		variance, err := svcs.Costs.CheckBudgetVariance(c.Params("department"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(variance)
	})

	app.Post("/devices/:id/recommendations", func(c *fiber.Ctx) error {
		ids, err := svcs.Recommendations.Generate(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ids": ids})
	})

	app.Get("/recommendations", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Recommendations.List(c.Query("status")))
	})

	app.Post("/recommendations/:id/implement", func(c *fiber.Ctx) error {
		if err := svcs.Recommendations.Implement(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": domain.RecommendationImplemented})
	})

	app.Get("/recommendations/:id/savings", func(c *fiber.Ctx) error {
		savings, err := svcs.Recommendations.TrackSavings(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(savings)
	})

	app.Get("/alerts", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Readings.ListAlerts(c.Query("status")))
	})

	app.Post("/reports/daily", func(c *fiber.Ctx) error {
		date, err := queryDate(c)
		if err != nil {
			return badRequest(c, err)
		}
		report, err := svcs.Reports.Daily(date)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(report)
	})

	app.Post("/reports/monthly", func(c *fiber.Ctx) error {
		now := time.Now()
		report, err := svcs.Reports.Monthly(
			c.QueryInt("year", now.Year()), c.QueryInt("month", int(now.Month())))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(report)
	})

	app.Get("/reports", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Reports.List())
	})
}

// queryDate parses the "date" query parameter, defaulting to today.
func queryDate(c *fiber.Ctx) (domain.Date, error) {
	raw := c.Query("date")
	if raw == "" {
		return domain.NewDate(time.Now()), nil
	}
	t, err := time.ParseInLocation(domain.DateLayout, raw, time.Local)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.NewDate(t), nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDeviceNotFound),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrBudgetNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrNoData),
		errors.Is(err, service.ErrInsufficientData):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotImplemented):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
