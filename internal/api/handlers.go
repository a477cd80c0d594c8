package api

import (
	"net/http"
	"strconv"

	"github.com/Berserk-Vl/TaskManagement/internal/api/middleware"
	"github.com/Berserk-Vl/TaskManagement/internal/pkg/metrics"
	"github.com/Berserk-Vl/TaskManagement/internal/service"

	"github.com/gin-gonic/gin"
)

// handleAddTask creates a task. The author is always the authenticated
// caller; any author supplied in the body is overwritten.
//
// POST /tasks
func (s *Server) handleAddTask(c *gin.Context) {
	fields, ok := s.bindFields(c)
	if !ok {
		return
	}
	fields.Set("author", middleware.CallerEmail(c))

	task, err := s.tasks.Add(c.Request.Context(), fields)
	if err != nil {
		s.respondError(c, err)
		return
	}
	metrics.TasksCreatedTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// handleGetTasks lists tasks through the query engine.
//
// GET /tasks?author=&performer=&status=&priority=&offset=&limit=&comments=
func (s *Server) handleGetTasks(c *gin.Context) {
	filters := map[string]string{}
	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			filters[name] = values[0]
		}
	}

	result, err := s.tasks.Query(c.Request.Context(), filters, middleware.CallerEmail(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	if result.WithComments {
		items := make([]gin.H, len(result.Tasks))
		for i, task := range result.Tasks {
			items[i] = gin.H{"task": task, "comments": result.Comments[i]}
		}
		c.JSON(http.StatusOK, gin.H{"tasks": items, "total": result.Total})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": result.Tasks, "total": result.Total})
}

// handleUpdateTask applies a partial update (author only).
//
// PUT /tasks/:taskId
func (s *Server) handleUpdateTask(c *gin.Context) {
	taskID, ok := s.parseTaskID(c)
	if !ok {
		return
	}
	fields, ok := s.bindFields(c)
	if !ok {
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), taskID, middleware.CallerEmail(c), fields)
	if err != nil {
		s.respondError(c, err)
		return
	}
	metrics.TasksUpdatedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleSetTaskStatus changes the task status (author or performer).
//
// PUT /tasks/:taskId/status
func (s *Server) handleSetTaskStatus(c *gin.Context) {
	taskID, ok := s.parseTaskID(c)
	if !ok {
		return
	}
	fields, ok := s.bindFields(c)
	if !ok {
		return
	}

	task, err := s.tasks.SetStatus(c.Request.Context(), taskID, middleware.CallerEmail(c), fields)
	if err != nil {
		s.respondError(c, err)
		return
	}
	metrics.TasksUpdatedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleSetTaskPerformer assigns or clears the performer (author only).
//
// PUT /tasks/:taskId/performer
func (s *Server) handleSetTaskPerformer(c *gin.Context) {
	taskID, ok := s.parseTaskID(c)
	if !ok {
		return
	}
	fields, ok := s.bindFields(c)
	if !ok {
		return
	}

	task, err := s.tasks.SetPerformer(c.Request.Context(), taskID, middleware.CallerEmail(c), fields)
	if err != nil {
		s.respondError(c, err)
		return
	}
	metrics.TasksUpdatedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes the task (author only) and echoes the removed
// record.
//
// DELETE /tasks/:taskId
func (s *Server) handleDeleteTask(c *gin.Context) {
	taskID, ok := s.parseTaskID(c)
	if !ok {
		return
	}

	task, err := s.tasks.Delete(c.Request.Context(), taskID, middleware.CallerEmail(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	metrics.TasksDeletedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleAddComment appends a comment to the task.
//
// PUT /tasks/:taskId/comment
func (s *Server) handleAddComment(c *gin.Context) {
	taskID, ok := s.parseTaskID(c)
	if !ok {
		return
	}
	fields, ok := s.bindFields(c)
	if !ok {
		return
	}

	comment, err := s.tasks.AddComment(c.Request.Context(), taskID, middleware.CallerEmail(c), fields)
	if err != nil {
		s.respondError(c, err)
		return
	}
	metrics.CommentsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// bindFields decodes the JSON body into the tri-state field map. Non-object
// bodies and non-string values are rejected up front.
func (s *Server) bindFields(c *gin.Context) (service.Fields, bool) {
	fields := service.Fields{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return fields, true
}

func (s *Server) parseTaskID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}
