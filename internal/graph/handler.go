package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"project-management-api/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// Request is the standard GraphQL-over-HTTP body
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler serves one schema over HTTP
type Handler struct {
	schema   graphql.Schema
	graphiql bool
	log      *logger.Logger
}

func NewHandler(schema graphql.Schema, graphiql bool, log *logger.Logger) *Handler {
	return &Handler{schema: schema, graphiql: graphiql, log: log.With("component", "graphql")}
}

// Serve handles GET and POST /graphql/
// GET without a query renders GraphiQL when it is enabled and the client
// accepts HTML.
func (h *Handler) Serve(c *gin.Context) {
	var req Request
	switch c.Request.Method {
	case http.MethodGet:
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if req.Query == "" && h.graphiql && strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(graphiQLPage))
			return
		}
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				h.badRequest(c, "Variables are invalid JSON.")
				return
			}
		}
	default:
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			h.badRequest(c, "Invalid JSON in request body.")
			return
		}
	}
	if strings.TrimSpace(req.Query) == "" {
		h.badRequest(c, "Must provide query string.")
		return
	}

	result := h.Execute(c.Request.Context(), req)
	if result.HasErrors() {
		h.log.Debug("graphql errors", "operation", req.OperationName, "errors", len(result.Errors))
	}
	c.JSON(http.StatusOK, result)
}

// Execute runs req against the schema
func (h *Handler) Execute(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

func (h *Handler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &graphql.Result{
		Errors: []gqlerrors.FormattedError{{Message: message}},
	})
}

const graphiQLPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>GraphiQL</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
</head>
<body style="margin:0;height:100vh;">
  <div id="graphiql" style="height:100vh;"></div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: window.location.pathname });
    ReactDOM.createRoot(document.getElementById('graphiql')).render(
      React.createElement(GraphiQL, { fetcher: fetcher })
    );
  </script>
</body>
</html>
`
