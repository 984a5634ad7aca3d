package api

import (
	"net/http"

	pdfPkg "pdf_toolkit/pdf"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type moveRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type swapRequest struct {
	Slot      *int   `json:"slot" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type sortRequest struct {
	Direction string `json:"direction" binding:"required,oneof=asc desc"`
}

type removeRequest struct {
	Slot *int `json:"slot" binding:"required"`
}

type rotateRequest struct {
	Page    *int `json:"page" binding:"required"`
	Degrees *int `json:"degrees"` // added to the current rotation, default 90
}

// sessionResponse is the JSON view of a session. Order holds 0-based page
// indices by slot; Rotations is keyed by page index.
type sessionResponse struct {
	SessionID string      `json:"session_id"`
	Filename  string      `json:"filename"`
	PageCount int         `json:"page_count"`
	Order     []int       `json:"order"`
	Rotations map[int]int `json:"rotations"`
}

func newSessionResponse(sess *Session, snap pdfPkg.OrderSnapshot) sessionResponse {
	return sessionResponse{
		SessionID: sess.ID,
		Filename:  sess.Filename,
		PageCount: snap.PageCount,
		Order:     snap.Order,
		Rotations: snap.Rotations,
	}
}

func HandleCreateSession(c *gin.Context, config *Config, sessions *SessionStore) {
	data, header, ok := readPDFUpload(c, config)
	if !ok {
		return
	}

	password := c.PostForm("password")
	doc, err := runWithTimeout(c.Request.Context(), config.OperationTimeout, func() (*pdfPkg.Document, error) {
		return pdfPkg.LoadDocument(data, password)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	sess := sessions.Create(sanitizeFilename(header.Filename), doc, pdfPkg.NewPageOrder(doc.PageCount()))
	log.WithFields(log.Fields{"session": sess.ID, "pages": doc.PageCount()}).Info("Organize session created")

	c.JSON(http.StatusCreated, newSessionResponse(sess, sess.Snapshot()))
}

func HandleGetSession(c *gin.Context, sessions *SessionStore) {
	sess, err := sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess, sess.Snapshot()))
}

func HandleDeleteSession(c *gin.Context, sessions *SessionStore) {
	if !sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func HandleMovePage(c *gin.Context, sessions *SessionStore) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	editSession(c, sessions, func(order *pdfPkg.PageOrder) error {
		return order.MoveSlot(*req.From, *req.To)
	})
}

func HandleSwapPage(c *gin.Context, sessions *SessionStore) {
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dir := pdfPkg.Down
	if req.Direction == "up" {
		dir = pdfPkg.Up
	}
	editSession(c, sessions, func(order *pdfPkg.PageOrder) error {
		order.SwapAdjacent(*req.Slot, dir)
		return nil
	})
}

func HandleSortPages(c *gin.Context, sessions *SessionStore) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	editSession(c, sessions, func(order *pdfPkg.PageOrder) error {
		if req.Direction == "desc" {
			order.SortDescending()
		} else {
			order.SortAscending()
		}
		return nil
	})
}

func HandleRemoveSlot(c *gin.Context, sessions *SessionStore) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	editSession(c, sessions, func(order *pdfPkg.PageOrder) error {
		return order.RemoveSlot(*req.Slot)
	})
}

func HandleRotatePage(c *gin.Context, sessions *SessionStore) {
	var req rotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delta := DefaultRotationDelta
	if req.Degrees != nil {
		delta = *req.Degrees
	}
	editSession(c, sessions, func(order *pdfPkg.PageOrder) error {
		return order.Rotate(*req.Page, delta)
	})
}

func HandleResetOrder(c *gin.Context, sessions *SessionStore) {
	editSession(c, sessions, func(order *pdfPkg.PageOrder) error {
		order.Reset()
		return nil
	})
}

func HandleExportSession(c *gin.Context, config *Config, sessions *SessionStore) {
	sess, err := sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	// The plan is a copy; edits arriving during the export do not reach it.
	plan, err := sess.Plan()
	if err != nil {
		respondError(c, err)
		return
	}

	content, err := runWithTimeout(c.Request.Context(), config.OperationTimeout, func() ([]byte, error) {
		return pdfPkg.ExportOrder(sess.doc, plan)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	sendPDF(c, pdfPkg.BaseName(sess.Filename)+"_organized.pdf", content)
}

// editSession runs fn against the session's page order and responds with the
// new state. A failed edit leaves the order untouched.
func editSession(c *gin.Context, sessions *SessionStore, fn func(order *pdfPkg.PageOrder) error) {
	sess, err := sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	snap, err := sess.Edit(fn)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess, snap))
}
