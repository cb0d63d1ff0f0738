package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitmate/splitmate/internal/middleware"
	"github.com/splitmate/splitmate/internal/models"
)

type createGroupRequest struct {
	Name            string   `json:"name" binding:"required"`
	DefaultCurrency string   `json:"defaultCurrency" binding:"required,len=3,uppercase"`
	Members         []string `json:"members"`
}

type updateGroupRequest struct {
	Name            string   `json:"name" binding:"required"`
	DefaultCurrency string   `json:"defaultCurrency" binding:"required,len=3,uppercase"`
	Members         []string `json:"members" binding:"required,min=1"`
}

type addMembersRequest struct {
	Members []string `json:"members" binding:"required,min=1"`
}

type memberResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type groupResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	DefaultCurrency string           `json:"defaultCurrency"`
	Members         []memberResponse `json:"members"`
	CreatedBy       string           `json:"createdBy"`
	CreatedAt       int64            `json:"createdAt"`
}

// memberDetails resolves member IDs to their profiles, preserving order.
// Accounts that no longer exist keep their bare ID.
func (h *Handlers) memberDetails(c *gin.Context, memberIDs []string) ([]memberResponse, error) {
	users, err := h.store.GetUsersByIDs(c.Request.Context(), memberIDs)
	if err != nil {
		return nil, err
	}
	members := make([]memberResponse, len(memberIDs))
	for i, id := range memberIDs {
		members[i] = memberResponse{ID: id}
		if user := users[id]; user != nil {
			members[i].Email = user.Email
			members[i].DisplayName = user.DisplayName
		}
	}
	return members, nil
}

func (h *Handlers) toGroupResponse(c *gin.Context, group *models.Group) (groupResponse, error) {
	members, err := h.memberDetails(c, group.Members)
	if err != nil {
		return groupResponse{}, err
	}
	return groupResponse{
		ID:              group.ID,
		Name:            group.Name,
		DefaultCurrency: group.DefaultCurrency,
		Members:         members,
		CreatedBy:       group.CreatedBy,
		CreatedAt:       group.CreatedAt,
	}, nil
}

// CreateGroup creates a new group. The caller is always a member.
func (h *Handlers) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	members := req.Members
	if !contains(members, userID) {
		members = append(members, userID)
	}

	group := &models.Group{
		Name:            req.Name,
		DefaultCurrency: req.DefaultCurrency,
		Members:         members,
		CreatedBy:       userID,
	}
	if err := h.store.CreateGroup(c.Request.Context(), group); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.toGroupResponse(c, group)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "members", len(group.Members))
	c.JSON(http.StatusCreated, gin.H{"group": resp})
}

// ListGroups returns the groups the caller belongs to.
func (h *Handlers) ListGroups(c *gin.Context) {
	groups, err := h.store.ListGroupsByMember(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]groupResponse, len(groups))
	for i, group := range groups {
		resp, err := h.toGroupResponse(c, group)
		if err != nil {
			respondError(c, err)
			return
		}
		responses[i] = resp
	}
	c.JSON(http.StatusOK, gin.H{"groups": responses})
}

// GetGroup returns one group the caller belongs to.
func (h *Handlers) GetGroup(c *gin.Context) {
	group := h.requireGroupMember(c, c.Param("id"), middleware.GetUserID(c))
	if group == nil {
		return
	}
	resp, err := h.toGroupResponse(c, group)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": resp})
}

// UpdateGroup updates a group's name, currency and member list.
func (h *Handlers) UpdateGroup(c *gin.Context) {
	userID := middleware.GetUserID(c)
	group := h.requireGroupMember(c, c.Param("id"), userID)
	if group == nil {
		return
	}

	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group.Name = req.Name
	group.DefaultCurrency = req.DefaultCurrency
	group.Members = req.Members
	if err := h.store.UpdateGroup(c.Request.Context(), group); err != nil {
		respondError(c, err)
		return
	}

	// Currency or membership changes alter derived balances.
	h.engine.Trigger(group.ID, "local_write")

	resp, err := h.toGroupResponse(c, group)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Group updated", "group_id", group.ID)
	c.JSON(http.StatusOK, gin.H{"group": resp})
}

// DeleteGroup removes a group and everything in it.
func (h *Handlers) DeleteGroup(c *gin.Context) {
	userID := middleware.GetUserID(c)
	group := h.requireGroupMember(c, c.Param("id"), userID)
	if group == nil {
		return
	}

	if err := h.store.DeleteGroup(c.Request.Context(), group.ID); err != nil {
		respondError(c, err)
		return
	}
	h.engine.Forget(group.ID)

	slog.Info("Group deleted", "group_id", group.ID, "deleted_by", userID)
	c.Status(http.StatusNoContent)
}

// AddGroupMembers adds members to an existing group.
func (h *Handlers) AddGroupMembers(c *gin.Context) {
	userID := middleware.GetUserID(c)
	group := h.requireGroupMember(c, c.Param("id"), userID)
	if group == nil {
		return
	}

	var req addMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.AddGroupMembers(c.Request.Context(), group.ID, req.Members); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.store.GetGroup(c.Request.Context(), group.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.toGroupResponse(c, updated)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Group members added", "group_id", group.ID, "added", len(req.Members))
	c.JSON(http.StatusOK, gin.H{"group": resp})
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
