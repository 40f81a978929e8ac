package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"

	"github.com/vulnwatch/image-scanner-api/pkg/etc"
	"github.com/vulnwatch/image-scanner-api/pkg/http/api"
	"github.com/vulnwatch/image-scanner-api/pkg/persistence"
	"github.com/vulnwatch/image-scanner-api/pkg/scan"
	"github.com/vulnwatch/image-scanner-api/pkg/trivy"
)

const (
	pathAPIPrefix   = "/api"
	pathScan        = "/scan"
	pathScans       = "/scans"
	pathScanDetail  = "/scans/{scan_id}"
	pathInfo        = "/info"
	pathVarScanID   = "scan_id"
	pathProbeHealth = "/probe/healthy"
	pathProbeReady  = "/probe/ready"
)

type requestHandler struct {
	info       etc.BuildInfo
	controller scan.Controller
	store      persistence.Store
	api.BaseHandler
}

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	Image string `json:"image"`
}

// Info describes the running service and its build.
type Info struct {
	Name    string `json:"name"`
	Engine  string `json:"engine"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	BuiltAt string `json:"built_at"`
}

func NewAPIHandler(info etc.BuildInfo, controller scan.Controller, store persistence.Store) http.Handler {
	handler := &requestHandler{
		info:       info,
		controller: controller,
		store:      store,
	}

	router := mux.NewRouter()
	router.Use(logRequest)

	router.Methods(http.MethodGet).Path(pathProbeHealth).HandlerFunc(handler.GetHealthy)
	router.Methods(http.MethodGet).Path(pathProbeReady).HandlerFunc(handler.GetReady)

	apiRouter := router.PathPrefix(pathAPIPrefix).Subrouter()

	apiRouter.Methods(http.MethodPost).Path(pathScan).HandlerFunc(handler.AcceptScanRequest)
	apiRouter.Methods(http.MethodGet).Path(pathScans).HandlerFunc(handler.ListScanRecords)
	apiRouter.Methods(http.MethodGet).Path(pathScanDetail).HandlerFunc(handler.GetScanRecord)
	apiRouter.Methods(http.MethodGet).Path(pathInfo).HandlerFunc(handler.GetInfo)

	return router
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		slog.Debug("Handling request",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
		)
		next.ServeHTTP(res, req)
	})
}

func (h *requestHandler) AcceptScanRequest(res http.ResponseWriter, req *http.Request) {
	scanRequest := ScanRequest{}
	if err := json.NewDecoder(req.Body).Decode(&scanRequest); err != nil {
		slog.Error("Error while unmarshalling scan request", slog.String("err", err.Error()))
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("unmarshalling scan request: %s", err.Error()),
		})
		return
	}

	scanRecord, err := h.controller.Scan(req.Context(), scanRequest.Image)
	if err != nil {
		slog.Error("Scan request failed",
			slog.String("image", scanRequest.Image),
			slog.String("err", err.Error()),
		)
		h.WriteJSONError(res, toAPIError(err))
		return
	}

	h.WriteJSON(res, scanRecord.WithoutReport(), http.StatusCreated)
}

// toAPIError maps the scan error taxonomy to client-visible statuses: user-fixable
// input problems are 400, failures of the external engine or its output are 502, and
// everything else, storage included, is 500.
func toAPIError(err error) api.Error {
	var (
		invalidInputErr *scan.InvalidInputError
		timeoutErr      *trivy.TimeoutError
		engineErr       *trivy.EngineError
		parseErr        *scan.ParseError
	)

	switch {
	case errors.As(err, &invalidInputErr):
		return api.Error{HTTPCode: http.StatusBadRequest, Message: invalidInputErr.Reason}
	case errors.As(err, &timeoutErr), errors.As(err, &engineErr), errors.As(err, &parseErr):
		return api.Error{HTTPCode: http.StatusBadGateway, Message: err.Error()}
	default:
		return api.Error{HTTPCode: http.StatusInternalServerError, Message: err.Error()}
	}
}

func (h *requestHandler) ListScanRecords(res http.ResponseWriter, req *http.Request) {
	var params persistence.ListParams

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(&params, req.URL.Query()); err != nil {
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("decoding query params: %s", err.Error()),
		})
		return
	}

	if params.Offset < 0 || params.Limit < 0 {
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusBadRequest,
			Message:  "offset and limit must not be negative",
		})
		return
	}

	records, err := h.store.List(req.Context(), params)
	if err != nil {
		slog.Error("Error while listing scan records", slog.String("err", err.Error()))
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusInternalServerError,
			Message:  fmt.Sprintf("listing scan records: %s", err.Error()),
		})
		return
	}

	h.WriteJSON(res, records, http.StatusOK)
}

func (h *requestHandler) GetScanRecord(res http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	id, err := strconv.ParseInt(vars[pathVarScanID], 10, 64)
	if err != nil {
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusNotFound,
			Message:  fmt.Sprintf("cannot find scan record: %s", vars[pathVarScanID]),
		})
		return
	}

	scanRecord, err := h.store.Get(req.Context(), id)
	if errors.Is(err, persistence.ErrNotFound) {
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusNotFound,
			Message:  fmt.Sprintf("cannot find scan record: %d", id),
		})
		return
	}
	if err != nil {
		slog.Error("Error while getting scan record",
			slog.Int64("scan_record_id", id),
			slog.String("err", err.Error()),
		)
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusInternalServerError,
			Message:  fmt.Sprintf("getting scan record: %s", err.Error()),
		})
		return
	}

	h.WriteJSON(res, scanRecord, http.StatusOK)
}

func (h *requestHandler) GetInfo(res http.ResponseWriter, _ *http.Request) {
	h.WriteJSON(res, Info{
		Name:    "image-scanner-api",
		Engine:  "Trivy",
		Version: h.info.Version,
		Commit:  h.info.Commit,
		BuiltAt: h.info.Date,
	}, http.StatusOK)
}

func (h *requestHandler) GetHealthy(res http.ResponseWriter, _ *http.Request) {
	res.WriteHeader(http.StatusOK)
}

func (h *requestHandler) GetReady(res http.ResponseWriter, _ *http.Request) {
	res.WriteHeader(http.StatusOK)
}
