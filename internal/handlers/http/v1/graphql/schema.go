package graphql

import (
	"time"

	"github.com/graphql-go/graphql"
)

var DateTime = graphql.NewScalar(
	graphql.ScalarConfig{
		Name:        "DateTime",
		Description: "DateTime scalar type",
		Serialize: func(value interface{}) interface{} {
			switch v := value.(type) {
			case time.Time:
				return v.Format(time.RFC3339)
			case *time.Time:
				return v.Format(time.RFC3339)
			default:
				return nil
			}
		},
	},
)

func (gh *gqlHandler) initSchema() error {
	postType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Post",
			Fields: graphql.Fields{
				"id":          postIDField(),
				"author":      &graphql.Field{Type: graphql.String},
				"location":    &graphql.Field{Type: graphql.String},
				"description": &graphql.Field{Type: graphql.String},
				"image":       &graphql.Field{Type: graphql.String},
				"date":        &graphql.Field{Type: graphql.String},
				"createdAt":   &graphql.Field{Type: DateTime},
			},
		},
	)

	queryType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"posts": getPostsQuery(gh, postType),
			},
		},
	)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return err
	}
	gh.schema = schema

	return nil
}
