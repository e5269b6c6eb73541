package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []Order
	}{
		{
			name: "none",
			raw:  nil,
			want: []Order{},
		},
		{
			name: "caller order kept",
			raw:  []string{"priority,desc", "creationTimestamp"},
			want: []Order{{FieldPriority, Desc}, {FieldCreationTimestamp, Asc}},
		},
		{
			name: "unknown fields dropped",
			raw:  []string{"spec.url,asc", "priority,asc"},
			want: []Order{{FieldPriority, Asc}},
		},
		{
			name: "first duplicate wins",
			raw:  []string{"priority,desc", "priority,asc"},
			want: []Order{{FieldPriority, Desc}},
		},
		{
			name: "direction is case-insensitive",
			raw:  []string{"creationTimestamp, DESC"},
			want: []Order{{FieldCreationTimestamp, Desc}},
		},
		{
			name: "unknown direction is ascending",
			raw:  []string{"priority,sideways"},
			want: []Order{{FieldPriority, Asc}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.raw))
		})
	}
}

func TestParseRequest(t *testing.T) {
	q := url.Values{}
	q.Set("keyword", "Exam")
	q.Set("groupName", " friends ")
	q.Add("sort", "priority,desc")
	q.Add("labelSelector", "env=prod, !beta")
	q.Add("fieldSelector", "spec.groupName=friends")
	q.Set("page", "2")
	q.Set("size", "20")

	req, err := ParseRequest(q)
	require.NoError(t, err)
	assert.Equal(t, "Exam", req.Keyword)
	assert.Equal(t, "friends", req.GroupName)
	assert.Equal(t, []Order{{FieldPriority, Desc}}, req.Sort)
	assert.Equal(t, []string{"env=prod", "!beta"}, req.LabelSelector)
	assert.Equal(t, []string{"spec.groupName=friends"}, req.FieldSelector)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 20, req.Size)
}

func TestParseRequest_Invalid(t *testing.T) {
	for _, q := range []url.Values{
		{"page": {"abc"}},
		{"size": {"-1"}},
		{"page": {"1.5"}},
	} {
		_, err := ParseRequest(q)
		assert.ErrorIs(t, err, ErrInvalidRequest, "query %v", q)
	}
}
