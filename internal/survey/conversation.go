package survey

// Conversation is the serializable state of one questionnaire run. The state
// machine itself is stateless: Start returns a fresh Conversation and
// Respond takes the state in and hands it back mutated, so the session layer
// owns the lifetime.
type Conversation struct {
	Step      int                    `json:"current_step"`
	Answers   map[QuestionKey]string `json:"collected_data"`
	Completed bool                   `json:"completed"`
}

// Question is the payload returned for each pending step.
type Question struct {
	Type         string      `json:"type"` // always "question"
	Key          QuestionKey `json:"key"`
	Prompt       string      `json:"question"`
	QuestionType string      `json:"question_type"`
	Options      any         `json:"options"`
	Step         int         `json:"step"` // 1-based for display
	TotalSteps   int         `json:"total_steps"`
}

// ValidationError is the retryable payload returned for rejected input. The
// current question is echoed so the caller can re-prompt without another
// round trip.
type ValidationError struct {
	Type     string   `json:"type"` // always "validation_error"
	Message  string   `json:"error_message"`
	Help     string   `json:"help_text,omitempty"`
	Question Question `json:"current_question"`
}

// StepResult is the outcome of one Respond call: exactly one of Question or
// Invalid is set, or Completed is true and the collected answers are ready
// for advice generation.
type StepResult struct {
	Question  *Question
	Invalid   *ValidationError
	Completed bool
	Advisory  string // caution attached to an accepted answer, if any
}

// Start returns a fresh conversation positioned at the first question.
func Start() (Conversation, Question) {
	conv := Conversation{
		Answers: make(map[QuestionKey]string),
	}
	return conv, questionAt(0)
}

// Respond validates raw input against the conversation's current step. Valid
// input stores the normalized answer and advances; invalid input leaves the
// state untouched and returns a retryable error payload. Responding to an
// already-completed conversation just re-signals completion so the caller
// can regenerate advice idempotently.
func Respond(conv *Conversation, raw string) StepResult {
	if conv.Completed {
		return StepResult{Completed: true}
	}

	key := QuestionOrder[conv.Step]
	v := Validate(raw, key)
	if !v.Valid {
		q := questionAt(conv.Step)
		return StepResult{Invalid: &ValidationError{
			Type:     "validation_error",
			Message:  v.Message,
			Help:     v.Help,
			Question: q,
		}}
	}

	if conv.Answers == nil {
		conv.Answers = make(map[QuestionKey]string)
	}
	conv.Answers[key] = v.Normalized
	conv.Step++

	if conv.Step >= len(QuestionOrder) {
		conv.Completed = true
		return StepResult{Completed: true, Advisory: v.Advisory}
	}

	q := questionAt(conv.Step)
	return StepResult{Question: &q, Advisory: v.Advisory}
}

func questionAt(step int) Question {
	key := QuestionOrder[step]
	tmpl := TemplateFor(key)
	return Question{
		Type:         "question",
		Key:          key,
		Prompt:       tmpl.Prompt,
		QuestionType: tmpl.Type,
		Options:      tmpl.Options,
		Step:         step + 1,
		TotalSteps:   len(QuestionOrder),
	}
}
