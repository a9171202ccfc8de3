package prompts

import _ "embed"

//go:embed interview/greeting.md.tmpl
var InterviewGreetingTemplate string

//go:embed interview/turn.md.tmpl
var InterviewTurnTemplate string

//go:embed learning/explain.md.tmpl
var LearningExplainTemplate string
