package graphql

import (
	"github.com/graphql-go/graphql"

	"blogicum/internal/service"
)

// All queries resolve with anonymous-viewer visibility: drafts, scheduled
// posts and posts in unpublished categories never leave this surface.

func getPostQuery(gh *gqlHandler, postType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: postType,
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id := p.Args["id"].(int)
			post, _, err := gh.svc.PostDetail(p.Context, id, service.AnonymousID)
			return post, err
		},
	}
}

func getPostsQuery(gh *gqlHandler, postType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(postType),
		Args: graphql.FieldConfigArgument{
			"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
			"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return gh.svc.PublicPosts(
				p.Context,
				p.Args["limit"].(int),
				p.Args["offset"].(int),
			)
		},
	}
}

func getCategoriesQuery(gh *gqlHandler, categoryType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(categoryType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return gh.svc.Categories(p.Context)
		},
	}
}

func getCommentsQuery(gh *gqlHandler, commentType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(commentType),
		Args: graphql.FieldConfigArgument{
			"post_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
			"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
			"offset":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return gh.svc.PublicComments(
				p.Context,
				p.Args["post_id"].(int),
				p.Args["limit"].(int),
				p.Args["offset"].(int),
			)
		},
	}
}
