package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-journal-go/internal/checklist"
	"trade-journal-go/internal/models"
)

// ChecklistHandler serves the pre-trade checklist template, scoring and
// saved submissions.
type ChecklistHandler struct {
	Store *checklist.Store
}

// Register mounts the checklist routes.
func (h *ChecklistHandler) Register(r *gin.Engine) {
	g := r.Group("/api/checklist")
	g.GET("/template", h.template)
	g.PUT("/template", h.putTemplate)
	g.POST("/score", h.score)
	g.POST("/submissions", h.submit)
	g.GET("/submissions", h.submissions)
}

func (h *ChecklistHandler) template(c *gin.Context) {
	tpl, err := h.Store.Template()
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *ChecklistHandler) putTemplate(c *gin.Context) {
	var tpl models.ChecklistTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if tpl.Name == "" {
		Error(c, http.StatusBadRequest, "template name is required")
		return
	}
	if err := h.Store.SaveTemplate(tpl); err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, tpl)
}

type checklistRequest struct {
	Template    string                 `json:"template"`
	TradeID     string                 `json:"trade_id"`
	Notes       string                 `json:"notes"`
	Items       []models.ChecklistItem `json:"items" binding:"required"`
	Confluences []models.Confluence    `json:"confluences"`
}

// score computes a score/grade without persisting anything, for live
// feedback while the user fills the checklist in.
func (h *ChecklistHandler) score(c *gin.Context) {
	var req checklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	score, grade, err := checklist.Score(req.Items, req.Confluences)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score, "grade": grade})
}

func (h *ChecklistHandler) submit(c *gin.Context) {
	var req checklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	sub, err := h.Store.Submit(req.Template, req.TradeID, req.Notes, req.Items, req.Confluences)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *ChecklistHandler) submissions(c *gin.Context) {
	subs, err := h.Store.Submissions()
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, subs)
}
