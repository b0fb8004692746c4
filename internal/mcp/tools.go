package mcp

import "github.com/mark3labs/mcp-go/mcp"

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all exercises in the user's catalog."),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Log one or more identical sets for an exercise. Unknown exercise names are added to the catalog. All sets share weight and reps but get their own timestamps."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press')")),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("Weight in kilograms, must be positive")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions per set, must be a positive integer")),
	mcp.WithNumber("count", mcp.Description("Number of identical sets to log. Defaults to 1.")),
)

var toolGetRecentSets = mcp.NewTool("get_recent_sets",
	mcp.WithDescription("Retrieve the most recent logged sets for an exercise, newest first."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match, e.g. 'bench')")),
	mcp.WithNumber("limit", mcp.Description("Maximum sets to return. Defaults to 20, the recency window.")),
)

var toolGetProgression = mcp.NewTool("get_progression",
	mcp.WithDescription("Get an exercise's weight progression series in chronological order (oldest first), as shown on the progress chart. Fewer than 2 points means insufficient data for a curve."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match)")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Browse the full set history grouped by calendar day, newest day first, with per-day total volume (weight × reps)."),
	mcp.WithNumber("days", mcp.Description("How many days back to include. Defaults to 30.")),
)
