package content

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gatehouse-io/gatehouse/internal/platform/httpx"
	"github.com/gatehouse-io/gatehouse/internal/rbac"
	"github.com/gatehouse-io/gatehouse/internal/shared"
)

// Handler wires the CRUD routes for all six content kinds. Every route is
// gated by the authorization middleware before its handler runs.
type Handler struct {
	logger    *slog.Logger
	repo      Repository
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository, authz rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: authz, validator: validator.New()}
}

// MountRoutes registers content routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	h.mountKind(r, "/create_post", ResourcePosts, kindRoutes{
		create: h.createPost, list: h.listPosts, update: h.updatePost, delete: h.deletePost,
	})
	h.mountKind(r, "/comment_post", ResourceComments, kindRoutes{
		create: h.createComment, list: h.listComments, update: h.updateComment, delete: h.deleteComment,
	})
	h.mountKind(r, "/manage_post", ResourceManage, kindRoutes{
		create: h.createManageAction, list: h.listManageActions, update: h.updateManageAction, delete: h.deleteManageAction,
	})
	h.mountKind(r, "/creating_event", ResourceEvents, kindRoutes{
		create: h.createEvent, list: h.listEvents, update: h.updateEvent, delete: h.deleteEvent,
	})
	h.mountKind(r, "/creating_poll", ResourcePolls, kindRoutes{
		create: h.createPoll, list: h.listPolls, update: h.updatePoll, delete: h.deletePoll,
	})
	h.mountKind(r, "/reaction_post", ResourceReactions, kindRoutes{
		create: h.createReaction, list: h.listReactions, update: h.updateReaction, delete: h.deleteReaction,
	})
}

type kindRoutes struct {
	create http.HandlerFunc
	list   http.HandlerFunc
	update http.HandlerFunc
	delete http.HandlerFunc
}

func (h *Handler) mountKind(r chi.Router, pattern, resource string, routes kindRoutes) {
	r.Route(pattern, func(r chi.Router) {
		r.With(h.rbac.Require(resource, rbac.ActionCreate)).Post("/", routes.create)
		r.With(h.rbac.Require(resource, rbac.ActionRead)).Get("/", routes.list)
		r.With(h.rbac.Require(resource, rbac.ActionUpdate)).Put("/{id}", routes.update)
		r.With(h.rbac.Require(resource, rbac.ActionDelete)).Delete("/{id}", routes.delete)
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, status int, data any, err error) {
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, status, data)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "id must be an integer")
		return 0, false
	}
	return id, true
}

func ownerID(r *http.Request) int64 {
	if identity := shared.IdentityFromContext(r.Context()); identity != nil {
		return identity.UserID
	}
	return 0
}

type postRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !h.decode(w, r, &req) {
		return
	}
	post, err := h.repo.CreatePost(r.Context(), req.Title, req.Content, ownerID(r))
	h.respond(w, http.StatusCreated, post, err)
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPosts(r.Context())
	h.respond(w, http.StatusOK, posts, err)
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req postRequest
	if !h.decode(w, r, &req) {
		return
	}
	post, err := h.repo.UpdatePost(r.Context(), id, req.Title, req.Content)
	h.respond(w, http.StatusOK, post, err)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"message": "Post deleted"}, h.repo.DeletePost(r.Context(), id))
}

type commentRequest struct {
	PostID  int64  `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type commentUpdateRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !h.decode(w, r, &req) {
		return
	}
	comment, err := h.repo.CreateComment(r.Context(), req.PostID, ownerID(r), req.Content)
	h.respond(w, http.StatusCreated, comment, err)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.repo.ListComments(r.Context())
	h.respond(w, http.StatusOK, comments, err)
}

func (h *Handler) updateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req commentUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	comment, err := h.repo.UpdateComment(r.Context(), id, req.Content)
	h.respond(w, http.StatusOK, comment, err)
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"message": "Comment deleted"}, h.repo.DeleteComment(r.Context(), id))
}

type manageRequest struct {
	PostID int64  `json:"post_id" validate:"required"`
	Action string `json:"action" validate:"required"`
}

type manageUpdateRequest struct {
	Action string `json:"action" validate:"required"`
}

func (h *Handler) createManageAction(w http.ResponseWriter, r *http.Request) {
	var req manageRequest
	if !h.decode(w, r, &req) {
		return
	}
	action, err := h.repo.CreateManageAction(r.Context(), req.PostID, ownerID(r), req.Action)
	h.respond(w, http.StatusCreated, action, err)
}

func (h *Handler) listManageActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.repo.ListManageActions(r.Context())
	h.respond(w, http.StatusOK, actions, err)
}

func (h *Handler) updateManageAction(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req manageUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	action, err := h.repo.UpdateManageAction(r.Context(), id, req.Action)
	h.respond(w, http.StatusOK, action, err)
}

func (h *Handler) deleteManageAction(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"message": "Manage action deleted"}, h.repo.DeleteManageAction(r.Context(), id))
}

type eventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !h.decode(w, r, &req) {
		return
	}
	event, err := h.repo.CreateEvent(r.Context(), req.Title, req.Description, ownerID(r))
	h.respond(w, http.StatusCreated, event, err)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.repo.ListEvents(r.Context())
	h.respond(w, http.StatusOK, events, err)
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req eventRequest
	if !h.decode(w, r, &req) {
		return
	}
	event, err := h.repo.UpdateEvent(r.Context(), id, req.Title, req.Description)
	h.respond(w, http.StatusOK, event, err)
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"message": "Event deleted"}, h.repo.DeleteEvent(r.Context(), id))
}

type pollRequest struct {
	Question string `json:"question" validate:"required"`
	Options  string `json:"options" validate:"required"`
}

func (h *Handler) createPoll(w http.ResponseWriter, r *http.Request) {
	var req pollRequest
	if !h.decode(w, r, &req) {
		return
	}
	poll, err := h.repo.CreatePoll(r.Context(), req.Question, req.Options, ownerID(r))
	h.respond(w, http.StatusCreated, poll, err)
}

func (h *Handler) listPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.repo.ListPolls(r.Context())
	h.respond(w, http.StatusOK, polls, err)
}

func (h *Handler) updatePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req pollRequest
	if !h.decode(w, r, &req) {
		return
	}
	poll, err := h.repo.UpdatePoll(r.Context(), id, req.Question, req.Options)
	h.respond(w, http.StatusOK, poll, err)
}

func (h *Handler) deletePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"message": "Poll deleted"}, h.repo.DeletePoll(r.Context(), id))
}

type reactionRequest struct {
	PostID       int64  `json:"post_id" validate:"required"`
	ReactionType string `json:"reaction_type" validate:"required"`
}

type reactionUpdateRequest struct {
	ReactionType string `json:"reaction_type" validate:"required"`
}

func (h *Handler) createReaction(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	reaction, err := h.repo.CreateReaction(r.Context(), req.PostID, ownerID(r), req.ReactionType)
	h.respond(w, http.StatusCreated, reaction, err)
}

func (h *Handler) listReactions(w http.ResponseWriter, r *http.Request) {
	reactions, err := h.repo.ListReactions(r.Context())
	h.respond(w, http.StatusOK, reactions, err)
}

func (h *Handler) updateReaction(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req reactionUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	reaction, err := h.repo.UpdateReaction(r.Context(), id, req.ReactionType)
	h.respond(w, http.StatusOK, reaction, err)
}

func (h *Handler) deleteReaction(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"message": "Reaction deleted"}, h.repo.DeleteReaction(r.Context(), id))
}
