package entity

import "encoding/json"

type EventType string

const (
	EventTaskStart     EventType = "task_start"
	EventTaskEnd       EventType = "task_end"
	EventTaskError     EventType = "task_error"
	EventCrewPlan      EventType = "crew_plan"
	EventCrewStepStart EventType = "crew_step_start"
	EventCrewStepEnd   EventType = "crew_step_end"
	EventFinalAnswer   EventType = "final_answer"
	EventError         EventType = "error"
)

// CrewTaskPrefix marks task events emitted from inside a crew step.
const CrewTaskPrefix = "crew_task"

// Event is one progress notification. Name carries the wire name, which for
// task events may be prefixed; Type stays the unprefixed kind.
type Event struct {
	Type EventType
	Name string
	Data any
}

type TaskStartData struct {
	ID      int    `json:"id"`
	Thought string `json:"thought"`
	Tool    string `json:"tool"`
	Input   string `json:"input"`
}

type TaskEndData struct {
	ID     int    `json:"id"`
	Output string `json:"output"`
}

type TaskErrorData struct {
	ID    int    `json:"id"`
	Error string `json:"error"`
}

type CrewPlanData struct {
	Plan Plan `json:"plan"`
}

type CrewStepStartData struct {
	Index int    `json:"index"`
	Step  string `json:"step"`
}

type CrewStepEndData struct {
	Index  int        `json:"index"`
	Result string     `json:"result"`
	Status StepStatus `json:"status"`
}

type FinalAnswerData struct {
	Reply string `json:"reply"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func NewEvent(t EventType, data any) Event {
	return Event{Type: t, Name: string(t), Data: data}
}

// WithPrefix returns a copy whose wire name is "<prefix>_<type>".
func (e Event) WithPrefix(prefix string) Event {
	if prefix == "" {
		return e
	}
	e.Name = prefix + "_" + string(e.Type)
	return e
}

func (e Event) MarshalJSON() ([]byte, error) {
	name := e.Name
	if name == "" {
		name = string(e.Type)
	}
	return json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{Event: name, Data: e.Data})
}

func TaskStart(id int, thought, tool, input string) Event {
	return NewEvent(EventTaskStart, TaskStartData{ID: id, Thought: thought, Tool: tool, Input: input})
}

func TaskEnd(id int, output string) Event {
	return NewEvent(EventTaskEnd, TaskEndData{ID: id, Output: output})
}

func TaskError(id int, err string) Event {
	return NewEvent(EventTaskError, TaskErrorData{ID: id, Error: err})
}

func CrewPlan(p Plan) Event {
	return NewEvent(EventCrewPlan, CrewPlanData{Plan: p})
}

func CrewStepStart(index int, step string) Event {
	return NewEvent(EventCrewStepStart, CrewStepStartData{Index: index, Step: step})
}

func CrewStepEnd(index int, result string, status StepStatus) Event {
	return NewEvent(EventCrewStepEnd, CrewStepEndData{Index: index, Result: result, Status: status})
}

func FinalAnswer(reply string) Event {
	return NewEvent(EventFinalAnswer, FinalAnswerData{Reply: reply})
}

func ErrorEvent(message string) Event {
	return NewEvent(EventError, ErrorData{Message: message})
}
