package property

import (
	"net/http"

	"hostly/infras/otel"
	"hostly/internal/domains/property/model"
	"hostly/internal/domains/property/model/dto"
	"hostly/internal/domains/property/service"
	"hostly/shared"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	"hostly/shared/validator"
	"hostly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Property
	otel    otel.Otel
}

func New(service service.Property, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/properties", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateProperty)
		routerGroup.Get("/", handler.GetProperties)
		routerGroup.Get("/{id}", handler.GetPropertyByID)
		routerGroup.Patch("/{id}", handler.UpdateProperty)
		routerGroup.Delete("/{id}", handler.DeleteProperty)

		routerGroup.Post("/{id}/approve", handler.ApproveProperty)
		routerGroup.Post("/{id}/reject", handler.RejectProperty)
		routerGroup.Patch("/{id}/commission", handler.UpdateCommission)
	})
}

// CreateProperty registers a property for an owner. It stays pending until an admin approves it.
// @Summary Create a new property
// @Tags Property
// @Accept json
// @Produce json
// @Param request body dto.CreatePropertyRequest true "Create Property Request"
// @Success 201 {object} response.Data[dto.PropertyResponse] "Property created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties [post]
// @Security BearerAuth
func (handler *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProperty")
	defer scope.End()

	req := dto.CreatePropertyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create property")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Property created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetProperties retrieves all properties based on query parameters.
// @Summary Get all properties
// @Tags Property
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param owner_id query string false "Filter by owner ID"
// @Param city query string false "Filter by city"
// @Param type query string false "Filter by property type"
// @Param approval_status query string false "Filter by approval status (pending, approved, rejected)"
// @Success 200 {object} response.Data[dto.GetPropertiesResponse] "List of properties"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties [get]
func (handler *Handler) GetProperties(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProperties")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := shared.FilterFromQuery(r, model.TableName,
		model.FieldOwnerID, model.FieldCity, model.FieldType, model.FieldApprovalStatus)

	properties, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get properties")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, properties)
}

// GetPropertyByID retrieves a property by its ID.
// @Summary Get a property by ID
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Data[dto.PropertyResponse] "Property details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id} [get]
func (handler *Handler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPropertyByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	property, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get property by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, property)
}

// UpdateProperty updates the descriptive fields of a property.
// @Summary Update a property by ID
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.UpdatePropertyRequest true "Update Property Request"
// @Success 200 {object} response.Message "Property updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdatePropertyRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update property")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Property updated successfully")
}

// DeleteProperty deletes a property by its ID.
// @Summary Delete a property by ID
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Message "Property deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete property")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Property deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Property deleted successfully")
}

// ApproveProperty approves a pending property so it can take bookings.
// @Summary Approve a property
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Message "Property approved successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) ApproveProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Approve(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve property")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Property " + id + " approved by user " + user)

	response.WithMessage(w, http.StatusOK, "Property approved successfully")
}

// RejectProperty rejects a pending property with a reason.
// @Summary Reject a property
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.RejectPropertyRequest true "Reject Property Request"
// @Success 200 {object} response.Message "Property rejected successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RejectPropertyRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Reject(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject property")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Property " + id + " rejected by user " + user)

	response.WithMessage(w, http.StatusOK, "Property rejected successfully")
}

// UpdateCommission sets the commission rate charged on a property's revenue.
// @Summary Update property commission
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.UpdateCommissionRequest true "Update Commission Request"
// @Success 200 {object} response.Message "Commission updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id}/commission [patch]
// @Security BearerAuth
func (handler *Handler) UpdateCommission(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCommission")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateCommissionRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateCommission(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update commission")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Commission updated successfully")
}
