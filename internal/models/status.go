package models

// Status - статус обращения. Переходы между статусами не ограничены.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Statuses возвращает все допустимые статусы в порядке отображения
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved}
}

// Valid проверяет, что статус входит в закрытый список значений
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
