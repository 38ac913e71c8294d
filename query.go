package cronofy

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02T15:04:05Z"
)

// query serializes parameters in the order they are added. List values are
// written as repeated key[]=value pairs.
type query struct {
	parts []string
}

func (q *query) add(key, value string) {
	q.parts = append(q.parts, key+"="+url.QueryEscape(value))
}

func (q *query) addString(key, value string) {
	if value != "" {
		q.add(key, value)
	}
}

func (q *query) addList(key string, values []string) {
	for _, v := range values {
		q.parts = append(q.parts, key+"[]="+url.QueryEscape(v))
	}
}

func (q *query) addBool(key string, value *bool) {
	if value != nil {
		q.add(key, strconv.FormatBool(*value))
	}
}

func (q *query) addDate(key string, value time.Time) {
	if !value.IsZero() {
		q.add(key, value.Format(dateLayout))
	}
}

func (q *query) addTime(key string, value time.Time) {
	if !value.IsZero() {
		q.add(key, value.UTC().Format(timeLayout))
	}
}

// String returns "" for no parameters, otherwise "?" followed by the pairs.
func (q *query) String() string {
	if len(q.parts) == 0 {
		return ""
	}
	return "?" + strings.Join(q.parts, "&")
}

// Bool returns a pointer to b, for optional boolean parameters.
func Bool(b bool) *bool {
	return &b
}
