package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/dossier/pkg/query"
)

func messageProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "messages", "m").
		Project("id", "ID").
		Project("evidence_id", "EvidenceID").
		Project("sender", "Sender").
		Project("created_at", "CreatedAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := messageProjection()

	assert.Equal(t, "public.messages m", p.Table())
	assert.Equal(t, "public.messages m", p.From())
	assert.Equal(t, "m", p.Alias())
	assert.Equal(t, "m.id, m.evidence_id, m.sender, m.created_at", p.Columns())
	assert.Equal(t, "m.sender", p.Column("Sender"))
	assert.True(t, p.Has("EvidenceID"))
	assert.False(t, p.Has("Payload"))
}

func TestProjectionMapJoin(t *testing.T) {
	p := query.NewProjectionMap("public", "evidences", "e").
		Project("id", "ID").
		Join("public", "cases", "c", "JOIN", "c.id = e.case_id").
		Project("title", "CaseTitle")

	assert.Equal(t, "public.evidences e JOIN public.cases c ON c.id = e.case_id", p.From())
	assert.Equal(t, "e.id, c.title", p.Columns())
	assert.Equal(t, "c.title", p.Column("CaseTitle"))
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(messageProjection()).BuildSingle("ID", "abc")

	assert.Equal(t, "SELECT m.id, m.evidence_id, m.sender, m.created_at FROM public.messages m WHERE m.id = $1", sql)
	assert.Equal(t, []any{"abc"}, args)
}

func TestBuildPageNumbersParameters(t *testing.T) {
	qb := query.NewBuilder(messageProjection(), query.SortField{Field: "CreatedAt"}, query.SortField{Field: "ID"}).
		WhereEquals("EvidenceID", "ev-1").
		WhereSearch(ptr("alice"), "Sender")

	sql, args := qb.BuildPage(2, 50)

	assert.Equal(t,
		"SELECT m.id, m.evidence_id, m.sender, m.created_at FROM public.messages m"+
			" WHERE m.evidence_id = $1 AND (m.sender ILIKE $2)"+
			" ORDER BY m.created_at ASC, m.id ASC LIMIT 50 OFFSET 50",
		sql,
	)
	assert.Equal(t, []any{"ev-1", "%alice%"}, args)
}

func TestBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(messageProjection()).
		WhereEquals("EvidenceID", "ev-1").
		BuildCount()

	assert.Equal(t, "SELECT COUNT(*) FROM public.messages m WHERE m.evidence_id = $1", sql)
	assert.Equal(t, []any{"ev-1"}, args)
}

func TestWhereEqualsSkipsNil(t *testing.T) {
	var status *string
	sql, args := query.NewBuilder(messageProjection()).WhereEquals("Sender", status).Build()

	assert.Equal(t, "SELECT m.id, m.evidence_id, m.sender, m.created_at FROM public.messages m", sql)
	assert.Empty(t, args)
}

func TestOrderByDropsUnmappedFields(t *testing.T) {
	qb := query.NewBuilder(messageProjection(), query.SortField{Field: "CreatedAt"}).
		OrderByFields(query.ParseSortFields("-Sender,id; DROP TABLE messages"))

	sql, _ := qb.Build()
	assert.Equal(t, "SELECT m.id, m.evidence_id, m.sender, m.created_at FROM public.messages m ORDER BY m.sender DESC", sql)
}

func TestOrderByFallsBackToDefault(t *testing.T) {
	qb := query.NewBuilder(messageProjection(), query.SortField{Field: "CreatedAt", Descending: true}).
		OrderByFields(query.ParseSortFields("nope"))

	sql, _ := qb.Build()
	assert.Equal(t, "SELECT m.id, m.evidence_id, m.sender, m.created_at FROM public.messages m ORDER BY m.created_at DESC", sql)
}

func TestParseSortFields(t *testing.T) {
	assert.Nil(t, query.ParseSortFields(""))
	assert.Equal(t,
		[]query.SortField{{Field: "Sender"}, {Field: "CreatedAt", Descending: true}},
		query.ParseSortFields("Sender, -CreatedAt"),
	)
}
