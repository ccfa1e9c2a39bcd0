// Package api exposes the creator backend over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
	contractgenx "github.com/wavelaunch/creator-backend/creator/contractgen"
	outreachx "github.com/wavelaunch/creator-backend/creator/outreach"
)

type Handler struct {
	Outreach  *outreachx.Service
	Contracts *contractgenx.Synthesizer
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Creator Backend API"})
}

func (h *Handler) ListCreators(c *gin.Context) {
	creators, err := h.Outreach.ListCreators(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, creators)
}

func (h *Handler) CreateCreator(c *gin.Context) {
	var input contractx.NewCreator
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.Outreach.CreateCreator(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": creator})
}

func (h *Handler) UpdateCreatorStatus(c *gin.Context) {
	creatorID, ok := parseCreatorID(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.Outreach.UpdateStatus(c.Request.Context(), creatorID, input.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": creator})
}

func (h *Handler) CreateActivity(c *gin.Context) {
	creatorID, ok := parseCreatorID(c)
	if !ok {
		return
	}

	var input struct {
		ActivityType     string     `json:"activity_type" binding:"required"`
		Body             string     `json:"body" binding:"required"`
		Status           string     `json:"status"`
		ActivityDatetime *time.Time `json:"activity_datetime"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at := time.Time{}
	if input.ActivityDatetime != nil {
		at = *input.ActivityDatetime
	}

	activity, err := h.Outreach.LogActivity(
		c.Request.Context(),
		creatorID,
		contractx.ActivityType(input.ActivityType),
		input.Body,
		input.Status,
		at,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": activity})
}

func (h *Handler) Call(c *gin.Context) {
	creatorID, ok := parseCreatorID(c)
	if !ok {
		return
	}

	var input contractx.CallRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Outreach.Call(c.Request.Context(), creatorID, input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	input = input.WithDefaults()
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"data":    result,
		"message": "Call initiated in " + input.Language + " with " + input.Voice + " voice",
	})
}

func (h *Handler) Email(c *gin.Context) {
	creatorID, ok := parseCreatorID(c)
	if !ok {
		return
	}

	var input contractx.EmailRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Outreach.Email(c.Request.Context(), creatorID, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": result})
}

func (h *Handler) AnalyzeCall(c *gin.Context) {
	creatorID, ok := parseCreatorID(c)
	if !ok {
		return
	}

	analysis, err := h.Outreach.AnalyzeCall(c.Request.Context(), creatorID, c.Param("call_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": analysis})
}

func (h *Handler) GenerateContract(c *gin.Context) {
	creatorID, ok := parseCreatorID(c)
	if !ok {
		return
	}

	contract, err := h.Contracts.Generate(c.Request.Context(), creatorID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"creator_id": creatorID.String(),
		"contract":   contract,
	})
}

func parseCreatorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid creator id"})
		return uuid.Nil, false
	}
	return id, true
}
