package httpapi

import (
	"bytes"
	"errors"
	"log"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/tourism-forecast/internal/plot"
	"github.com/i474232898/tourism-forecast/internal/store"
	"github.com/i474232898/tourism-forecast/internal/tourism"
	"github.com/i474232898/tourism-forecast/internal/tourism/sources"
)

var validate = validator.New()

const (
	msgUploadRequired = "Please upload a CSV file."
	maxForecastYears  = 30
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *tourism.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/analyses", func(c *fiber.Ctx) error {
		fh, ok := uploadedFile(c)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, msgUploadRequired)
		}

		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Error reading CSV file. Please check the file format and encoding.")
		}
		defer f.Close()

		run, err := service.Analyze(c.UserContext(), fh.Filename, f)
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(run)
	})

	v1.Get("/analyses", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"analyses": service.Runs(),
		})
	})

	v1.Get("/analyses/:id", func(c *fiber.Ctx) error {
		run, err := service.Run(c.Params("id"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(run)
	})

	v1.Get("/analyses/:id/plot", func(c *fiber.Ctx) error {
		var q plotQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		run, forecast, err := plotData(service, c.Params("id"), q.Forecast)
		if err != nil {
			return toFiberError(err)
		}

		var buf bytes.Buffer
		if err := plot.RenderHTML(&buf, run.Dataset, run.Stationarity, forecast); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	v1.Get("/analyses/:id/plot.png", func(c *fiber.Ctx) error {
		var q plotQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		run, forecast, err := plotData(service, c.Params("id"), q.Forecast)
		if err != nil {
			return toFiberError(err)
		}

		var buf bytes.Buffer
		if err := plot.RenderPNG(&buf, run.Dataset, forecast); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
		}
		c.Type("png")
		return c.Send(buf.Bytes())
	})

	v1.Post("/predictions", func(c *fiber.Ctx) error {
		var req predictionRequest
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var (
			pred    tourism.Prediction
			summary tourism.ModelSummary
			err     error
		)
		if fh, ok := uploadedFile(c); ok {
			f, openErr := fh.Open()
			if openErr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Error reading CSV file. Please check the file format and encoding.")
			}
			defer f.Close()
			pred, summary, err = service.Predict(c.UserContext(), req.Date, fh.Filename, f)
		} else {
			pred, summary, err = service.Predict(c.UserContext(), req.Date, "", nil)
		}
		if err != nil {
			return toFiberError(err)
		}

		return c.JSON(fiber.Map{
			"prediction": pred,
			"model":      summary,
			"message":    pred.Message(),
		})
	})

	v1.Get("/model", func(c *fiber.Ctx) error {
		summary, err := service.ActiveModel()
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(summary)
	})

	v1.Post("/model/retrain", func(c *fiber.Ctx) error {
		summary, err := service.Retrain(c.UserContext())
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(summary)
	})
}

// toFiberError maps domain errors onto HTTP status codes.
func toFiberError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no analysis with the requested id")
	case errors.Is(err, tourism.ErrModelNotFound):
		return fiber.NewError(fiber.StatusServiceUnavailable, "no trained model is available; upload a CSV file or retrain the model")
	case errors.Is(err, tourism.ErrNoSource):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, sources.ErrSourceNotFound):
		return fiber.NewError(fiber.StatusServiceUnavailable, sources.ErrSourceNotFound.Error())
	case errors.Is(err, tourism.ErrMalformedCSV),
		errors.Is(err, tourism.ErrEmptyTable),
		errors.Is(err, tourism.ErrUnexpectedShape),
		errors.Is(err, tourism.ErrNoNumericData),
		errors.Is(err, tourism.ErrSeriesTooShort),
		errors.Is(err, tourism.ErrDegenerateSeries),
		errors.Is(err, tourism.ErrFitFailed),
		errors.Is(err, tourism.ErrDateOutOfRange):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("ERROR: request failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
}

func uploadedFile(c *fiber.Ctx) (*multipart.FileHeader, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, false
	}
	files := form.File["file"]
	if len(files) == 0 {
		return nil, false
	}
	return files[0], true
}

func plotData(service *tourism.Service, id string, years int) (*tourism.AnalysisRun, []tourism.Observation, error) {
	run, err := service.Run(id)
	if err != nil {
		return nil, nil, err
	}
	if years == 0 {
		return run, nil, nil
	}

	forecast, err := service.Forecast(run.Dataset, years)
	if err != nil {
		return nil, nil, err
	}
	return run, forecast, nil
}

// plotQuery holds query parameters for the plot endpoints.
type plotQuery struct {
	Forecast int `validate:"gte=0,lte=30"`
}

func (q *plotQuery) bind(c *fiber.Ctx) error {
	if s := c.Query("forecast"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("forecast must be a whole number of years")
		}
		q.Forecast = n
	}
	if err := validate.Struct(q); err != nil {
		return errors.New("forecast must be between 0 and " + strconv.Itoa(maxForecastYears))
	}
	return nil
}

// predictionRequest holds the form fields of the predictions endpoint.
type predictionRequest struct {
	Date time.Time `validate:"required"`
}

func (r *predictionRequest) bind(c *fiber.Ctx) error {
	s := c.FormValue("date")
	if s == "" {
		s = c.Query("date")
	}
	if s == "" {
		return errors.New("date is required (YYYY-MM-DD)")
	}

	d, err := parseDate(s)
	if err != nil {
		return err
	}
	r.Date = d
	return nil
}

// parseDate accepts YYYY-MM-DD or RFC3339.
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, errors.New("invalid date format; use YYYY-MM-DD or RFC3339")
}
