package owner

import (
	"net/http"

	"hostly/infras/otel"
	"hostly/internal/domains/owner/model"
	"hostly/internal/domains/owner/model/dto"
	"hostly/internal/domains/owner/service"
	"hostly/shared"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	"hostly/shared/failure"
	"hostly/shared/validator"
	"hostly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Owner
	otel    otel.Otel
}

func New(service service.Owner, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/owners", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateOwner)
		routerGroup.Get("/", handler.GetOwners)
		routerGroup.Get("/{id}", handler.GetOwnerByID)

		routerGroup.Post("/{id}/documents", handler.SubmitDocuments)
		routerGroup.Post("/{id}/verify", handler.VerifyOwner)
		routerGroup.Post("/{id}/reject", handler.RejectOwner)
	})
}

// CreateOwner registers a property owner awaiting verification.
// @Summary Create a new owner
// @Tags Owner
// @Accept json
// @Produce json
// @Param request body dto.CreateOwnerRequest true "Create Owner Request"
// @Success 201 {object} response.Data[dto.OwnerResponse] "Owner created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/owners [post]
// @Security BearerAuth
func (handler *Handler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOwner")
	defer scope.End()

	req := dto.CreateOwnerRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create owner")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetOwners lists owners, e.g. those pending verification.
// @Summary Get all owners
// @Tags Owner
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param verification_status query string false "Filter by verification status (pending, verified, rejected)"
// @Param documents_submitted query bool false "Filter by submitted documents"
// @Success 200 {object} response.Data[dto.GetOwnersResponse] "List of owners"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/owners [get]
// @Security BearerAuth
func (handler *Handler) GetOwners(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwners")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := shared.FilterFromQuery(r, model.TableName, model.FieldVerificationStatus, model.FieldDocumentsSubmitted)

	owners, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get owners")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, owners)
}

// GetOwnerByID retrieves an owner by ID.
// @Summary Get an owner by ID
// @Tags Owner
// @Produce json
// @Param id path string true "Owner ID"
// @Success 200 {object} response.Data[dto.OwnerResponse] "Owner details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/owners/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetOwnerByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnerByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	owner, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get owner by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, owner)
}

// SubmitDocuments uploads an ownership document to object storage.
// @Summary Submit owner documents
// @Description Upload a PDF, PNG or JPEG document (max 5 MB) proving ownership.
// @Tags Owner
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Owner ID"
// @Param file formData file true "Ownership document"
// @Success 200 {object} response.Data[dto.OwnerResponse] "Documents submitted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/owners/{id}/documents [post]
// @Security BearerAuth
func (handler *Handler) SubmitDocuments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitDocuments")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, failure.BadRequest(err))

		return
	}
	defer file.Close()

	req := dto.SubmitDocumentsRequest{
		Document:     fileHeader,
		DocumentFile: file,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate document")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.SubmitDocuments(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit documents")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Documents submitted for owner " + id)

	response.WithJSON(w, http.StatusOK, res)
}

// VerifyOwner marks an owner as verified. Documents must have been submitted.
// @Summary Verify an owner
// @Tags Owner
// @Produce json
// @Param id path string true "Owner ID"
// @Success 200 {object} response.Message "Owner verified successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/owners/{id}/verify [post]
// @Security BearerAuth
func (handler *Handler) VerifyOwner(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifyOwner")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Verify(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify owner")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Owner " + id + " verified by user " + user)

	response.WithMessage(w, http.StatusOK, "Owner verified successfully")
}

// RejectOwner rejects an owner's verification with a reason.
// @Summary Reject an owner
// @Tags Owner
// @Accept json
// @Produce json
// @Param id path string true "Owner ID"
// @Param request body dto.RejectOwnerRequest true "Reject Owner Request"
// @Success 200 {object} response.Message "Owner rejected successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/owners/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectOwner(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectOwner")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RejectOwnerRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Reject(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject owner")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Owner rejected successfully")
}
