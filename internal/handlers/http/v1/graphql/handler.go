package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/internal/service"
)

type gqlHandler struct {
	svc *service.Service
	log *logrus.Logger

	schema graphql.Schema
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func New(svc *service.Service, log *logrus.Logger) (*gqlHandler, error) {
	gh := &gqlHandler{
		svc: svc,
		log: log,
	}

	if err := gh.initSchema(); err != nil {
		return nil, err
	}

	return gh, nil
}

func (gh *gqlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		gh.log.WithError(err).Debug("graphql: bad request body")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid graphql request body"})
		return
	}
	if req.Query == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "query is required"})
		return
	}

	res := graphql.Do(graphql.Params{
		Context:        r.Context(),
		Schema:         gh.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
	})
	if res.HasErrors() {
		gh.log.WithField("errors", res.Errors).Debug("graphql: query returned errors")
	}
	json.NewEncoder(w).Encode(res)
}
