package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/types"
	"go.uber.org/zap"

	"habittracker/pkg/logger"
	"habittracker/pkg/metrics"
)

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	schema     *graphql.Schema
	logger     *zap.Logger
	rootFields map[string]struct{}
}

func NewGraphQLHandler(schema *graphql.Schema, logger *zap.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		schema:     schema,
		logger:     logger,
		rootFields: rootFieldNames(schema),
	}
}

// rootFieldNames 收集 query/mutation 根字段名，作为指标标签白名单
func rootFieldNames(schema *graphql.Schema) map[string]struct{} {
	names := map[string]struct{}{}
	for _, entry := range schema.ASTSchema().EntryPoints {
		obj, ok := entry.(*types.ObjectTypeDefinition)
		if !ok {
			continue
		}
		for _, f := range obj.Fields {
			names[f.Name] = struct{}{}
		}
	}
	return names
}

// operationLabel 只有与根字段同名的 operationName 才原样作为标签
func (h *GraphQLHandler) operationLabel(name string) string {
	if name == "" {
		return "anonymous"
	}
	if _, ok := h.rootFields[name]; ok {
		return name
	}
	return "other"
}

// Serve handles POST /graphql
func (h *GraphQLHandler) Serve(c *gin.Context) {
	var req graphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{"message": "invalid graphql request body"}},
		})
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	duration := time.Since(start)

	op := h.operationLabel(req.OperationName)
	metrics.RecordGraphQLOperation(op, len(resp.Errors) > 0, duration)

	if len(resp.Errors) > 0 {
		logger.WithTrace(ctx, h.logger).Debug("GraphQL operation returned errors",
			zap.String("operation", op),
			zap.Int("errors", len(resp.Errors)),
			zap.Duration("duration", duration),
		)
	}

	c.JSON(http.StatusOK, resp)
}
