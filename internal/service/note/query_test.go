package note

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
	"github.com/weiwangfds/noteapi/internal/service/tag"
	"github.com/weiwangfds/noteapi/internal/testdb"
	"pgregory.net/rapid"
)

func listTitles(l *NoteList) []string {
	titles := make([]string, 0, len(l.Notes))
	for _, n := range l.Notes {
		titles = append(titles, n.Title)
	}
	return titles
}

func TestListNotesOrderAndScope(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	alice := testdb.CreateUser(t, db, "alice")
	bob := testdb.CreateUser(t, db, "bob")

	first, err := svc.CreateNote(ctx, alice, createReq("first"))
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, alice, createReq("second"))
	require.NoError(t, err)
	gone, err := svc.CreateNote(ctx, alice, createReq("deleted"))
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, bob, createReq("bobs"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(ctx, gone.ID, alice))
	// 更新让first成为最近修改的笔记
	_, err = svc.UpdateNote(ctx, first.ID, alice, &UpdateNoteRequest{Title: "first", Content: "edited", Tags: []string{"b", "a"}})
	require.NoError(t, err)

	list, err := svc.ListNotes(ctx, alice, ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.TotalCount)
	assert.Equal(t, []string{"first", "second"}, listTitles(list))
	assert.Equal(t, []string{"a", "b"}, list.Notes[0].Tags)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 10, list.PageSize)
}

func TestListNotesTieBreaksByID(t *testing.T) {
	db := testdb.New(t)
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := NewNoteService(db, tag.NewResolver(), WithClock(func() time.Time { return fixed }))
	ctx := context.Background()
	userID := testdb.CreateUser(t, db, "alice")

	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		n, err := svc.CreateNote(ctx, userID, createReq(title))
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	list, err := svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, list.Notes, 3)
	assert.Equal(t, ids[2], list.Notes[0].ID)
	assert.Equal(t, ids[1], list.Notes[1].ID)
	assert.Equal(t, ids[0], list.Notes[2].ID)
}

func TestListNotesSearch(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	userID := testdb.CreateUser(t, db, "alice")

	notes := []CreateNoteRequest{
		{Title: "Meeting Notes", Content: "agenda", Tags: []string{}},
		{Title: "shopping", Content: "buy MEETING snacks", Tags: []string{}},
		{Title: "100% done", Content: "progress", Tags: []string{}},
		{Title: "file_name", Content: "underscore", Tags: []string{}},
		{Title: "filexname", Content: "no underscore", Tags: []string{}},
		{Title: `back\slash`, Content: "escape", Tags: []string{}},
	}
	for i := range notes {
		_, err := svc.CreateNote(ctx, userID, &notes[i])
		require.NoError(t, err)
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"meeting", []string{"shopping", "Meeting Notes"}},
		{"MEETING", []string{"shopping", "Meeting Notes"}},
		{" notes", []string{"Meeting Notes"}},
		{" MEETING ", []string{"shopping"}},
		{"  meeting  ", []string{}},
		{"%", []string{"100% done"}},
		{"e_n", []string{"file_name"}},
		{`\s`, []string{`back\slash`}},
		{"nothing-matches", []string{}},
		{"   ", []string{`back\slash`, "filexname", "file_name", "100% done", "shopping", "Meeting Notes"}},
	}
	for _, tt := range tests {
		list, err := svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 20, Search: tt.search})
		require.NoError(t, err, tt.search)
		assert.Equal(t, tt.want, listTitles(list), "search %q", tt.search)
		assert.EqualValues(t, len(tt.want), list.TotalCount, "search %q", tt.search)
	}
}

func TestListNotesSearchFoldsUnicode(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	userID := testdb.CreateUser(t, db, "alice")

	_, err := svc.CreateNote(ctx, userID, &CreateNoteRequest{Title: "Café ÉTUDE", Content: "Привет мир", Tags: []string{}})
	require.NoError(t, err)
	other, err := svc.CreateNote(ctx, userID, &CreateNoteRequest{Title: "helloworld", Content: "x", Tags: []string{}})
	require.NoError(t, err)

	for _, search := range []string{"étude", "CAFÉ", "ПРИВЕТ", "мир"} {
		list, err := svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Search: search})
		require.NoError(t, err)
		assert.EqualValues(t, 1, list.TotalCount, "search %q", search)
		assert.Equal(t, []string{"Café ÉTUDE"}, listTitles(list), "search %q", search)
	}

	// 搜索词中的空白参与匹配
	list, err := svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Search: " world"})
	require.NoError(t, err)
	assert.Empty(t, list.Notes)

	// 更新后影子列随之刷新
	_, err = svc.UpdateNote(ctx, other.ID, userID, &UpdateNoteRequest{Title: "Hello WORLD", Content: "ÜBER", Tags: []string{}})
	require.NoError(t, err)
	list, err = svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Search: " world"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello WORLD"}, listTitles(list))
	list, err = svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Search: "über"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello WORLD"}, listTitles(list))
}

func TestListNotesTagFilterIsSuperset(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	userID := testdb.CreateUser(t, db, "alice")

	for _, n := range []struct {
		title string
		tags  []string
	}{
		{"only-a", []string{"a"}},
		{"a-b", []string{"a", "b"}},
		{"a-b-c", []string{"a", "b", "c"}},
		{"b-c", []string{"b", "c"}},
		{"none", nil},
	} {
		_, err := svc.CreateNote(ctx, userID, createReq(n.title, n.tags...))
		require.NoError(t, err)
	}

	list, err := svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Tags: []string{"a", "b"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a-b", "a-b-c"}, listTitles(list))
	assert.EqualValues(t, 2, list.TotalCount)

	// 过滤条件同样被规范化和去重
	list, err = svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Tags: []string{" A ", "a", "B"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a-b", "a-b-c"}, listTitles(list))

	list, err = svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Tags: []string{"missing"}})
	require.NoError(t, err)
	assert.Empty(t, list.Notes)
	assert.NotNil(t, list.Notes)

	// 全部为空的过滤条件等于不过滤
	list, err = svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Tags: []string{" ", ""}})
	require.NoError(t, err)
	assert.EqualValues(t, 5, list.TotalCount)
}

func TestListNotesSearchAndTags(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	userID := testdb.CreateUser(t, db, "alice")

	_, err := svc.CreateNote(ctx, userID, createReq("report draft", "work"))
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, userID, createReq("report final", "home"))
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, userID, createReq("holiday", "work"))
	require.NoError(t, err)

	list, err := svc.ListNotes(ctx, userID, ListQuery{Page: 1, PageSize: 10, Search: "report", Tags: tag.ParseTagFilter("Work")})
	require.NoError(t, err)
	assert.Equal(t, []string{"report draft"}, listTitles(list))
}

func TestListNotesInvalidPagination(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	for _, q := range []ListQuery{
		{Page: 0, PageSize: 10},
		{Page: -1, PageSize: 10},
		{Page: 1, PageSize: 0},
		{Page: 1, PageSize: -5},
	} {
		_, err := svc.ListNotes(ctx, 1, q)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err), "%+v", q)

		appErr, ok := apperrors.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrInvalidPagination, appErr.Code)
	}
}

func TestListNotesClampsPageSize(t *testing.T) {
	svc, db, _ := setup(t)
	userID := testdb.CreateUser(t, db, "alice")

	list, err := svc.ListNotes(context.Background(), userID, ListQuery{Page: 1, PageSize: MaxPageSize * 10})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, list.PageSize)
}

// 分页前的总数与页码无关，且每页条数不超过每页数量
func TestListNotesPaginationProperties(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 15).Draw(rt, "notes")
		size := rapid.IntRange(1, 6).Draw(rt, "size")
		page := rapid.IntRange(1, 5).Draw(rt, "page")

		userID := testdb.CreateUser(rt, db, "prop")
		for i := 0; i < n; i++ {
			_, err := svc.CreateNote(ctx, userID, createReq("n"))
			require.NoError(rt, err)
		}

		list, err := svc.ListNotes(ctx, userID, ListQuery{Page: page, PageSize: size})
		require.NoError(rt, err)
		require.EqualValues(rt, n, list.TotalCount)
		require.LessOrEqual(rt, len(list.Notes), size)

		want := n - (page-1)*size
		if want < 0 {
			want = 0
		}
		if want > size {
			want = size
		}
		require.Len(rt, list.Notes, want)

		for i := 1; i < len(list.Notes); i++ {
			prev, cur := list.Notes[i-1], list.Notes[i]
			require.False(rt, cur.UpdatedAt.After(prev.UpdatedAt), "ordered by updated_at desc")
		}
	})
}
