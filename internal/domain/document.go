package domain

import "fmt"

// Document JSON-документ в коллекции хранилища.
type Document struct {
	ID   string
	Data map[string]any
}

// FilterOp оператор сравнения в запросе к документам.
type FilterOp string

const (
	OpEqual        FilterOp = "=="
	OpLess         FilterOp = "<"
	OpLessEqual    FilterOp = "<="
	OpGreater      FilterOp = ">"
	OpGreaterEqual FilterOp = ">="
)

// Filter условие на поле верхнего уровня документа.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// DocumentQuery запрос к коллекции. Результаты упорядочены по порядку вставки.
type DocumentQuery struct {
	Collection string
	Filters    []Filter
	Limit      int
}

// Where добавляет условие к запросу.
func (q DocumentQuery) Where(field string, op FilterOp, value any) DocumentQuery {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// UsersCollection коллекция пользователей в пространстве имен развертывания.
func UsersCollection(appID string) string {
	return fmt.Sprintf("artifacts/%s/public/data/users", appID)
}

// LogsCollection коллекция упражнений пользователя.
func LogsCollection(appID, userID string) string {
	return fmt.Sprintf("%s/%s/logs", UsersCollection(appID), userID)
}
