package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"georeport/internal/domain"
	"georeport/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	reports   service.ReportService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewHandler(users service.UserService, reports service.ReportService, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{
		users:     users,
		reports:   reports,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.GET("/auth/key", authRequired(h.jwtSecret), h.getAPIKey)
		api.POST("/reports", h.submitReport)
		api.GET("/reports", h.listReports)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists, please choose a different username"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"registered": true})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Same message for unknown username and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := issueToken(h.jwtSecret, h.tokenTTL, user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) getAPIKey(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_key": user.APIKey})
}

func (h *Handler) submitReport(c *gin.Context) {
	apiKey := c.PostForm("api_key")

	lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
		return
	}
	long, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
		return
	}

	in := service.SubmitInput{
		APIKey:      apiKey,
		Latitude:    lat,
		Longitude:   long,
		Description: c.PostForm("description"),
		SourceAddr:  c.ClientIP(),
	}

	fileHeader, err := c.FormFile("file")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
			return
		}
		defer file.Close()
		in.FileName = fileHeader.Filename
		in.File = file
	case errors.Is(err, http.ErrMissingFile):
		// report without an attachment
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file field"})
		return
	}

	report, err := h.reports.Submit(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownKey):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown api key"})
		case errors.Is(err, service.ErrEnrichmentFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "enrichment failed"})
		case errors.Is(err, service.ErrStorageFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, reportToResponse(*report))
}

func (h *Handler) listReports(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reports, err := h.reports.Query(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	resp := make([]ReportResponse, len(reports))
	for i := range reports {
		resp[i] = reportToResponse(reports[i])
	}
	c.JSON(http.StatusOK, resp)
}

func parseFilter(c *gin.Context) (domain.ReportFilter, error) {
	filter := domain.ReportFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Sort:      c.Query("sort"),
	}

	var err error
	if filter.Lat, err = optionalFloat(c, "lat"); err != nil {
		return domain.ReportFilter{}, err
	}
	if filter.Long, err = optionalFloat(c, "lng"); err != nil {
		return domain.ReportFilter{}, err
	}
	if filter.Dist, err = optionalFloat(c, "dist"); err != nil {
		return domain.ReportFilter{}, err
	}

	if raw := c.Query("max"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return domain.ReportFilter{}, errors.New("invalid max")
		}
		filter.Max = limit
	}

	return filter, nil
}

func optionalFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	return &v, nil
}

type ReportResponse struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Username       string  `json:"username"`
	DatetimeEntry  string  `json:"datetime_entry"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	State          string  `json:"state"`
	Country        string  `json:"country"`
	Temperature    string  `json:"temperature"`
	IPAddress      string  `json:"ip_address"`
	Description    string  `json:"description"`
	Classification string  `json:"classification"`
	FilePath       string  `json:"file_path"`
}

func reportToResponse(report domain.Report) ReportResponse {
	return ReportResponse{
		ID:             report.ID,
		UserID:         report.UserID,
		Username:       report.Username,
		DatetimeEntry:  report.DatetimeEntry,
		Latitude:       report.Latitude,
		Longitude:      report.Longitude,
		State:          report.State,
		Country:        report.Country,
		Temperature:    report.Temperature,
		IPAddress:      report.IPAddress,
		Description:    report.Description,
		Classification: report.Classification,
		FilePath:       report.FilePath,
	}
}
