package graph

import (
	"github.com/graphql-go/graphql"
)

func argID(p graphql.ResolveParams, name string) uint {
	v, _ := p.Args[name].(int)
	if v < 0 {
		return 0
	}
	return uint(v)
}

func argInput(p graphql.ResolveParams) map[string]interface{} {
	in, _ := p.Args["input"].(map[string]interface{})
	if in == nil {
		in = map[string]interface{}{}
	}
	return in
}

func source(p graphql.ResolveParams) node {
	src, _ := p.Source.(node)
	return src
}

func idArg(name string) graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		name: &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}
}

func mutationPayload(name, key string, entity *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			key:       &graphql.Field{Type: entity},
			"success": &graphql.Field{Type: graphql.Boolean},
			"errors":  &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})
}

// NewSchema builds the executable schema over r
func NewSchema(r *Resolver) (graphql.Schema, error) {
	organizationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Organization",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":         &graphql.Field{Type: graphql.String},
			"slug":         &graphql.Field{Type: graphql.String},
			"contactEmail": &graphql.Field{Type: graphql.String},
			"createdAt":    &graphql.Field{Type: graphql.String},
		},
	})

	projectType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"organization": &graphql.Field{
				Type: organizationType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.projectOrganization(p.Context, source(p))
				},
			},
			"name":               &graphql.Field{Type: graphql.String},
			"description":        &graphql.Field{Type: graphql.String},
			"status":             &graphql.Field{Type: graphql.String},
			"dueDate":            &graphql.Field{Type: graphql.String, Description: "Calendar date, YYYY-MM-DD"},
			"createdAt":          &graphql.Field{Type: graphql.String},
			"taskCount":          &graphql.Field{Type: graphql.Int},
			"completedTaskCount": &graphql.Field{Type: graphql.Int},
			"completionRate":     &graphql.Field{Type: graphql.Float},
		},
	})

	var commentType *graphql.Object
	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"project": &graphql.Field{
					Type: projectType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return r.taskProject(p.Context, source(p))
					},
				},
				"title":         &graphql.Field{Type: graphql.String},
				"description":   &graphql.Field{Type: graphql.String},
				"status":        &graphql.Field{Type: graphql.String},
				"assigneeEmail": &graphql.Field{Type: graphql.String},
				"dueDate":       &graphql.Field{Type: graphql.String, Description: "RFC 3339 date-time"},
				"createdAt":     &graphql.Field{Type: graphql.String},
				"commentCount":  &graphql.Field{Type: graphql.Int},
				"comments": &graphql.Field{
					Type: graphql.NewList(commentType),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return r.taskComments(p.Context, source(p))
					},
				},
			}
		}),
	})

	commentType = graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskComment",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"task": &graphql.Field{
					Type: taskType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return r.commentTask(p.Context, source(p))
					},
				},
				"content":     &graphql.Field{Type: graphql.String},
				"authorEmail": &graphql.Field{Type: graphql.String},
				"timestamp":   &graphql.Field{Type: graphql.String},
			}
		}),
	})

	statisticsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProjectStatistics",
		Fields: graphql.Fields{
			"totalProjects":         &graphql.Field{Type: graphql.Int},
			"activeProjects":        &graphql.Field{Type: graphql.Int},
			"completedProjects":     &graphql.Field{Type: graphql.Int},
			"onHoldProjects":        &graphql.Field{Type: graphql.Int},
			"totalTasks":            &graphql.Field{Type: graphql.Int},
			"completedTasks":        &graphql.Field{Type: graphql.Int},
			"inProgressTasks":       &graphql.Field{Type: graphql.Int},
			"todoTasks":             &graphql.Field{Type: graphql.Int},
			"overallCompletionRate": &graphql.Field{Type: graphql.Float},
		},
	})

	projectInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProjectInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"organizationId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"name":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"dueDate":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	projectUpdateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProjectUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":           &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"dueDate":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"organizationId": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})
	taskInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"projectId":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"title":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"assigneeEmail": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"dueDate":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	taskUpdateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TaskUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"assigneeEmail": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"dueDate":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"projectId":     &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})
	commentInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TaskCommentInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"taskId":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"content":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"authorEmail": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"organizations": &graphql.Field{
				Type: graphql.NewList(organizationType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Organizations(p.Context)
				},
			},
			"organization": &graphql.Field{
				Type: organizationType,
				Args: idArg("organizationId"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Organization(p.Context, argID(p, "organizationId"))
				},
			},
			"projectsByOrganization": &graphql.Field{
				Type:        graphql.NewList(projectType),
				Description: "List all projects for a specific organization",
				Args:        idArg("organizationId"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.ProjectsByOrganization(p.Context, argID(p, "organizationId"))
				},
			},
			"projectStatistics": &graphql.Field{
				Type:        statisticsType,
				Description: "Get project statistics for an organization",
				Args:        idArg("organizationId"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.ProjectStatistics(p.Context, argID(p, "organizationId"))
				},
			},
			"project": &graphql.Field{
				Type:        projectType,
				Description: "Get a single project by ID",
				Args:        idArg("projectId"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Project(p.Context, argID(p, "projectId"))
				},
			},
			"tasksByProject": &graphql.Field{
				Type: graphql.NewList(taskType),
				Args: idArg("projectId"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.TasksByProject(p.Context, argID(p, "projectId"))
				},
			},
			"task": &graphql.Field{
				Type:        taskType,
				Description: "Get a single task by ID",
				Args:        idArg("taskId"),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Task(p.Context, argID(p, "taskId"))
				},
			},
		},
	})

	inputArg := func(t graphql.Input) *graphql.ArgumentConfig {
		return &graphql.ArgumentConfig{Type: graphql.NewNonNull(t)}
	}

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createProject": &graphql.Field{
				Type: mutationPayload("CreateProject", "project", projectType),
				Args: graphql.FieldConfigArgument{"input": inputArg(projectInput)},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.CreateProject(p.Context, argInput(p)), nil
				},
			},
			"updateProject": &graphql.Field{
				Type: mutationPayload("UpdateProject", "project", projectType),
				Args: graphql.FieldConfigArgument{
					"projectId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"input":     inputArg(projectUpdateInput),
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.UpdateProject(p.Context, argID(p, "projectId"), argInput(p)), nil
				},
			},
			"createTask": &graphql.Field{
				Type: mutationPayload("CreateTask", "task", taskType),
				Args: graphql.FieldConfigArgument{"input": inputArg(taskInput)},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.CreateTask(p.Context, argInput(p)), nil
				},
			},
			"updateTask": &graphql.Field{
				Type: mutationPayload("UpdateTask", "task", taskType),
				Args: graphql.FieldConfigArgument{
					"taskId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"input":  inputArg(taskUpdateInput),
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.UpdateTask(p.Context, argID(p, "taskId"), argInput(p)), nil
				},
			},
			"addTaskComment": &graphql.Field{
				Type: mutationPayload("AddTaskComment", "comment", commentType),
				Args: graphql.FieldConfigArgument{"input": inputArg(commentInput)},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.AddTaskComment(p.Context, argInput(p)), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
