package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yujin9907/cloud-naitive/internal/models"
	"github.com/yujin9907/cloud-naitive/internal/repository"
	"github.com/yujin9907/cloud-naitive/internal/testhelpers"
)

func newMockRepo(t *testing.T, caseSensitive bool) (*repository.PostRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewPostRepository(sqlx.NewDb(db, "postgres"), testhelpers.NewTestLogger(), caseSensitive)
	return repo, mock
}

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content"})
}

func TestPostRepository_List_All(t *testing.T) {
	repo, mock := newMockRepo(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, content FROM posts ORDER BY id DESC`)).
		WillReturnRows(postRows().
			AddRow(2, "second", "b").
			AddRow(1, "first", "a"))

	posts, err := repo.List(context.Background(), repository.ListFilter{})
	require.NoError(t, err)

	require.Len(t, posts, 2)
	assert.Equal(t, int64(2), posts[0].ID)
	assert.Equal(t, "first", posts[1].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_EmptyIsNotNil(t *testing.T) {
	repo, mock := newMockRepo(t, false)

	mock.ExpectQuery(`SELECT id, title, content FROM posts`).WillReturnRows(postRows())

	posts, err := repo.List(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_List_Keyword(t *testing.T) {
	tests := []struct {
		name          string
		caseSensitive bool
		keyword       string
		wantOp        string
		wantArg       string
	}{
		{name: "case insensitive", keyword: "go", wantOp: "ILIKE", wantArg: "%go%"},
		{name: "case sensitive", caseSensitive: true, keyword: "Go", wantOp: "LIKE", wantArg: "%Go%"},
		{name: "wildcards escaped", keyword: `50%_off\`, wantOp: "ILIKE", wantArg: `%50\%\_off\\%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t, tt.caseSensitive)

			query := `SELECT id, title, content FROM posts WHERE title ` + tt.wantOp + ` $1 ESCAPE '\' OR content ` +
				tt.wantOp + ` $1 ESCAPE '\' ORDER BY id DESC`
			mock.ExpectQuery(regexp.QuoteMeta(query)).
				WithArgs(tt.wantArg).
				WillReturnRows(postRows().AddRow(7, "match", "body"))

			posts, err := repo.List(context.Background(), repository.ListFilter{Keyword: tt.keyword})
			require.NoError(t, err)
			assert.Len(t, posts, 1)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_List_Error(t *testing.T) {
	repo, mock := newMockRepo(t, false)

	mock.ExpectQuery(`SELECT id, title, content FROM posts`).WillReturnError(sql.ErrConnDone)

	_, err := repo.List(context.Background(), repository.ListFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestPostRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, content FROM posts WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(postRows().AddRow(4, "t", "c"))

	post, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, &models.Post{ID: 4, Title: "t", Content: "c"}, post)
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t, false)

	mock.ExpectQuery(`SELECT id, title, content FROM posts WHERE id`).
		WithArgs(int64(99)).
		WillReturnRows(postRows())

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestPostRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts (title, content) VALUES ($1, $2) RETURNING id`)).
		WithArgs("hello", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	id, err := repo.Create(context.Background(), models.Post{Title: "hello", Content: ""})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Create_Error(t *testing.T) {
	repo, mock := newMockRepo(t, false)

	mock.ExpectQuery(`INSERT INTO posts`).WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), models.Post{Title: "a", Content: "b"})
	assert.ErrorContains(t, err, "insert post")
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		call      func(repo *repository.PostRepository) (int64, error)
		wantRows  int64
		wantErr   bool
	}{
		{
			name: "update existing row",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET title = $1, content = $2 WHERE id = $3`)).
					WithArgs("t2", "c2", int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			call: func(repo *repository.PostRepository) (int64, error) {
				return repo.Update(context.Background(), 1, models.Post{Title: "t2", Content: "c2"})
			},
			wantRows: 1,
		},
		{
			name: "update missing row is a no-op",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE posts`).
					WithArgs("t", "c", int64(404)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			call: func(repo *repository.PostRepository) (int64, error) {
				return repo.Update(context.Background(), 404, models.Post{Title: "t", Content: "c"})
			},
			wantRows: 0,
		},
		{
			name: "update database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE posts`).WillReturnError(sql.ErrConnDone)
			},
			call: func(repo *repository.PostRepository) (int64, error) {
				return repo.Update(context.Background(), 1, models.Post{})
			},
			wantErr: true,
		},
		{
			name: "delete existing row",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1`)).
					WithArgs(int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			call: func(repo *repository.PostRepository) (int64, error) {
				return repo.Delete(context.Background(), 3)
			},
			wantRows: 1,
		},
		{
			name: "delete missing row is idempotent",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM posts`).
					WithArgs(int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			call: func(repo *repository.PostRepository) (int64, error) {
				return repo.Delete(context.Background(), 3)
			},
			wantRows: 0,
		},
		{
			name: "delete database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM posts`).WillReturnError(sql.ErrConnDone)
			},
			call: func(repo *repository.PostRepository) (int64, error) {
				return repo.Delete(context.Background(), 3)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockRepo(t, false)
			tc.setupMock(mock)

			rows, err := tc.call(repo)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRows, rows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plain", repository.EscapeLike("plain"))
	assert.Equal(t, `100\%`, repository.EscapeLike("100%"))
	assert.Equal(t, `a\_b`, repository.EscapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, repository.EscapeLike(`c:\dir`))
}
