package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/config"
	"github.com/dev-react009/instaclone/internal/model"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	insertPost = `INSERT INTO posts.posts (author, location, description, image, date)
VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	selectPosts = `SELECT id, author, location, description, image, date, created_at FROM posts.posts ORDER BY id`
)

type postgresRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func New(conf config.Postgres, log *logrus.Logger) (*postgresRepository, error) {
	url := fmt.Sprintf(
		"postgresql://%v:%v@%v:%v/%v?sslmode=disable", conf.User, conf.Pass, conf.Host, conf.Port, conf.DB)

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	if err := migrateUp(db, conf, log); err != nil {
		db.Close()
		return nil, err
	}

	return &postgresRepository{
		db:  db,
		log: log,
	}, nil
}

func migrateUp(db *sql.DB, conf config.Postgres, log *logrus.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres.WithInstance: %w", err)
	}
	migrations := fmt.Sprintf("file://%v", conf.Migrations)
	m, err := migrate.NewWithDatabaseInstance(migrations, conf.DB, driver)
	if err != nil {
		return fmt.Errorf("migrate.NewWithDatabaseInstance: %w", err)
	}

	log.Info("applying migrations")
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("nothing to migrate")
			return nil
		}
		return fmt.Errorf("error when migrating: %w", err)
	}
	log.Info("migrated successfully")
	return nil
}

func (pr *postgresRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	var id int64
	saved := *post
	err := pr.db.QueryRowContext(ctx, insertPost,
		post.Author, post.Location, post.Description, post.Image, post.Date,
	).Scan(&id, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	saved.ID = strconv.FormatInt(id, 10)
	return &saved, nil
}

func (pr *postgresRepository) List(ctx context.Context) ([]*model.Post, error) {
	rows, err := pr.db.QueryContext(ctx, selectPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		var (
			id   int64
			post model.Post
		)
		err = rows.Scan(&id, &post.Author, &post.Location, &post.Description, &post.Image, &post.Date, &post.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.ID = strconv.FormatInt(id, 10)
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}
	return posts, nil
}

func (pr *postgresRepository) Close(context.Context) error {
	return pr.db.Close()
}
