// Copyright (c) 2026 HiSudoku. All rights reserved.

package sudoku

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisudoku/hisudoku-api/internal/authz"
	"github.com/hisudoku/hisudoku-api/internal/platform/middleware"
	requestutil "github.com/hisudoku/hisudoku-api/internal/platform/request"
	"github.com/hisudoku/hisudoku-api/internal/platform/respond"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/internal/platform/validate"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
)

// FieldContent identifies the grid string in validation errors.
const FieldContent = "content"

// Handler implements puzzle-related HTTP endpoints.
type Handler struct {
	sudokuService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{sudokuService: service}
}

// Routes returns a [chi.Router] configured with puzzle-specific routes.
//
// # Endpoints
//   - GET    /                   : Paginated feed, optional ?author= filter.
//   - GET    /{id}               : Single puzzle.
//   - GET    /{id}/favorited-by  : Accounts that favorited the puzzle.
//   - POST   /                   : (sudoku:create) Creates a puzzle.
//   - PUT    /{id}               : (sudoku:update) Replaces the grid.
//   - DELETE /{id}               : (sudoku:delete) Removes a puzzle.
//   - POST   /{id}/favorite      : (favorite:toggle) Flips the favorite mark.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.feed)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/favorited-by", handler.favoritedBy)

	// Protected endpoints. The authority gates admit USER and ADMIN but
	// exclude BANNED, whose role derives no authorities at all.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authz.HasAuthority(sec.AuthoritySudokuCreate)))
		r.Post("/", handler.create)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authz.HasAuthority(sec.AuthoritySudokuUpdate)))
		r.Put("/{id}", handler.update)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authz.HasAuthority(sec.AuthoritySudokuDelete)))
		r.Delete("/{id}", handler.delete)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authz.HasAuthority(sec.AuthorityFavoriteToggle)))
		r.Post("/{id}/favorite", handler.toggleFavorite)
	})

	return router
}

// # Request Payloads

type createSudokuRequest struct {
	Content string `json:"content"`
}

type updateSudokuRequest struct {
	Content string `json:"content"`
}

type favoriteResponse struct {
	Favorited bool `json:"favorited"`
}

/*
Feed lists puzzles, newest first.

GET /api/v1/sudokus?page=&limit=&author=<id>

Response:
  - 200: Paginated list of puzzles
*/
func (handler *Handler) feed(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	authorID := request.URL.Query().Get("author")

	entities, total, err := handler.sudokuService.Feed(request.Context(), authorID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entities, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns a single puzzle.

GET /api/v1/sudokus/{id}

Response:
  - 200: Sudoku
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.sudokuService.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
Create persists a new puzzle authored by the requester.

POST /api/v1/sudokus

Request:
  - Body: createSudokuRequest (Content, 81 cells)

Response:
  - 201: Sudoku
  - 400: ErrInvalidJSON: Malformed or constraint-violating grid
  - 401/403: Missing or insufficient authority
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createSudokuRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Content == "" {
		respond.Error(writer, request, validate.RequiredError(FieldContent, "This field is required"))
		return
	}

	entity, err := handler.sudokuService.Create(request.Context(), principal, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
Update replaces a puzzle's grid.

PUT /api/v1/sudokus/{id}

Response:
  - 200: Sudoku
  - 403: ErrForbidden: Requester is neither the author nor ADMIN
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateSudokuRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Content == "" {
		respond.Error(writer, request, validate.RequiredError(FieldContent, "This field is required"))
		return
	}

	entity, err := handler.sudokuService.UpdateContent(request.Context(), principal, requestutil.ID(request, "id"), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
Delete removes a puzzle and its favorite marks.

DELETE /api/v1/sudokus/{id}

Response:
  - 204: No content
  - 403: ErrForbidden: Requester is neither the author nor ADMIN
  - 404: ErrNotFound
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sudokuService.Delete(request.Context(), principal, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ToggleFavorite flips the requester's favorite mark on a puzzle.

POST /api/v1/sudokus/{id}/favorite

Response:
  - 200: favoriteResponse: The new mark state
  - 404: ErrNotFound
*/
func (handler *Handler) toggleFavorite(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorited, err := handler.sudokuService.ToggleFavorite(request.Context(), principal, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, favoriteResponse{Favorited: favorited})
}

/*
FavoritedBy lists the public profiles of accounts that favorited a puzzle.

GET /api/v1/sudokus/{id}/favorited-by?page=&limit=

Response:
  - 200: Paginated list of public profiles (no email, no credentials)
  - 404: ErrNotFound
*/
func (handler *Handler) favoritedBy(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	profiles, total, err := handler.sudokuService.FavoritedBy(request.Context(), requestutil.ID(request, "id"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, pagination.NewMeta(params.Page, params.Limit, total))
}
