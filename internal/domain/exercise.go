package domain

// Exercise одна запись журнала упражнений. Принадлежит ровно одному пользователю,
// после создания не изменяется.
type Exercise struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        Date   `json:"date"`
}

// ExerciseEntry ответ на добавление упражнения: запись вместе с данными владельца.
type ExerciseEntry struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Exercise
}

// ExerciseLog производное представление журнала пользователя, в хранилище не сохраняется.
type ExerciseLog struct {
	ID       string     `json:"_id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []Exercise `json:"log"`
}

// LogFilter фильтр журнала: включительные границы дат и лимит.
// Нулевые значения означают отсутствие ограничения.
type LogFilter struct {
	From  *Date
	To    *Date
	Limit int
}

// Match проверяет попадание записи в диапазон дат.
func (f LogFilter) Match(e Exercise) bool {
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	return true
}

// Apply фильтрует записи по датам и обрезает до лимита, сохраняя порядок хранения.
func (f LogFilter) Apply(exercises []Exercise) []Exercise {
	out := make([]Exercise, 0, len(exercises))
	for _, e := range exercises {
		if !f.Match(e) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}
