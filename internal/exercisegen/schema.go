package exercisegen

import "github.com/abhisek/lectio/internal/llm"

// Batch schemas validate the raw reply after JSON extraction, before
// normalization. correct_answer is permissive at this point: backends
// return the stage-1 answer either as an array or as a comma-separated
// string, and normalization resolves that afterwards. id and stage are
// optional because the generator backfills them.

var singleChoiceBatchSchema = &llm.Schema{
	Name:        "single-choice-batch",
	Description: "A batch of single-choice exercises for one text section",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":       map[string]any{"type": "integer"},
				"type":     map[string]any{"type": "string"},
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"correct_answer": map[string]any{"type": "string"},
				"stage":          map[string]any{"type": "integer"},
			},
			"required": []any{"question", "options", "correct_answer"},
		},
	},
}

var multipleChoiceBatchSchema = &llm.Schema{
	Name:        "multiple-choice-batch",
	Description: "A batch of multiple-choice exercises for one text section",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":       map[string]any{"type": "integer"},
				"type":     map[string]any{"type": "string"},
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"correct_answer": map[string]any{
					"oneOf": []any{
						map[string]any{"type": "string"},
						map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
				},
				"stage": map[string]any{"type": "integer"},
			},
			"required": []any{"question", "options", "correct_answer"},
		},
	},
}

var openQuestionBatchSchema = &llm.Schema{
	Name:        "open-question-batch",
	Description: "A batch of open questions for one text section",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":                  map[string]any{"type": "integer"},
				"type":                map[string]any{"type": "string"},
				"question":            map[string]any{"type": "string"},
				"model_answer":        map[string]any{"type": "string"},
				"evaluation_criteria": map[string]any{"type": "string"},
				"stage":               map[string]any{"type": "integer"},
			},
			"required": []any{"question"},
		},
	},
}

// batchSchema returns the validation schema for the given stage.
func batchSchema(stage Stage) *llm.Schema {
	switch stage {
	case StageSingleChoice:
		return singleChoiceBatchSchema
	case StageMultipleChoice:
		return multipleChoiceBatchSchema
	default:
		return openQuestionBatchSchema
	}
}
