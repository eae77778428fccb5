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

// Field names match the models' json tags so the default resolver can
// pick them up without per-field resolve functions.
func (gh *gqlHandler) initSchema() error {
	categoryType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Category",
			Fields: graphql.Fields{
				"id":          &graphql.Field{Type: graphql.ID},
				"title":       &graphql.Field{Type: graphql.String},
				"slug":        &graphql.Field{Type: graphql.String},
				"description": &graphql.Field{Type: graphql.String},
			},
		},
	)

	postType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Post",
			Fields: graphql.Fields{
				"id":              &graphql.Field{Type: graphql.ID},
				"title":           &graphql.Field{Type: graphql.String},
				"text":            &graphql.Field{Type: graphql.String},
				"pub_date":        &graphql.Field{Type: DateTime},
				"location":        &graphql.Field{Type: graphql.String},
				"image_url":       &graphql.Field{Type: graphql.String},
				"author_username": &graphql.Field{Type: graphql.String},
				"category":        &graphql.Field{Type: categoryType},
				"comment_count":   &graphql.Field{Type: graphql.Int},
			},
		},
	)

	commentType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Comment",
			Fields: graphql.Fields{
				"id":              &graphql.Field{Type: graphql.ID},
				"post_id":         &graphql.Field{Type: graphql.ID},
				"text":            &graphql.Field{Type: graphql.String},
				"author_username": &graphql.Field{Type: graphql.String},
				"created_at":      &graphql.Field{Type: DateTime},
			},
		},
	)

	queryType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"post":       getPostQuery(gh, postType),
				"posts":      getPostsQuery(gh, postType),
				"categories": getCategoriesQuery(gh, categoryType),
				"comments":   getCommentsQuery(gh, commentType),
			},
		},
	)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return err
	}

	gh.schema = schema
	return nil
}
