package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dev-react009/instaclone/internal/model"
)

func postIDField() *graphql.Field {
	return &graphql.Field{
		Type: graphql.ID,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if post, ok := p.Source.(*model.Post); ok {
				return post.ID, nil
			}
			return nil, nil
		},
	}
}

func getPostsQuery(gh *gqlHandler, postType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(postType),
		Args: graphql.FieldConfigArgument{
			"author": &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			posts, err := gh.svc.ListPosts(p.Context)
			if err != nil {
				return nil, err
			}
			author, ok := p.Args["author"].(string)
			if !ok || author == "" {
				return posts, nil
			}
			filtered := make([]*model.Post, 0, len(posts))
			for _, post := range posts {
				if post.Author == author {
					filtered = append(filtered, post)
				}
			}
			return filtered, nil
		},
	}
}
