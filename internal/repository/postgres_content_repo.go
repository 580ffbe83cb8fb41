package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hitoshi/whirl/internal/model"
)

// PostgresContentRepo はPostgreSQLを使用した生成コンテンツリポジトリ。
type PostgresContentRepo struct {
	db *sql.DB
}

// NewPostgresContentRepo はPostgresContentRepoを生成する。
func NewPostgresContentRepo(db *sql.DB) *PostgresContentRepo {
	return &PostgresContentRepo{db: db}
}

// ReplaceByUserID は指定ユーザーの保存済みコンテンツを全件置き換える。
// DELETEとINSERTを同一トランザクションで行い、途中で失敗した場合は
// 既存データが残る。
func (r *PostgresContentRepo) ReplaceByUserID(ctx context.Context, userID string, items []model.SavedContent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM generated_contents WHERE user_id = $1`, userID,
	); err != nil {
		return fmt.Errorf("既存コンテンツの削除に失敗しました: %w", err)
	}

	for i, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.New().String()
		}
		status := item.Status
		if status == "" {
			status = model.ApprovalStatusDraft
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO generated_contents
			   (id, user_id, platform_id, platform_name, color_token,
			    image_url, caption, hashtags, status, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id, userID, item.PlatformID, item.PlatformName, item.ColorToken,
			item.ImageURL, item.Caption, pq.Array(item.Hashtags), string(status), i,
		); err != nil {
			return fmt.Errorf("コンテンツの挿入に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return nil
}

// ListByUserID は指定ユーザーの保存済みコンテンツを保存位置順に返す。
func (r *PostgresContentRepo) ListByUserID(ctx context.Context, userID string) ([]model.SavedContent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, platform_id, platform_name, color_token,
		        image_url, caption, hashtags, status, position, created_at, updated_at
		 FROM generated_contents
		 WHERE user_id = $1
		 ORDER BY position ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("コンテンツの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	items := []model.SavedContent{}
	for rows.Next() {
		var item model.SavedContent
		var status string
		var hashtags pq.StringArray
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.PlatformID, &item.PlatformName, &item.ColorToken,
			&item.ImageURL, &item.Caption, &hashtags, &status, &item.Position,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("コンテンツ行の読み取りに失敗しました: %w", err)
		}
		item.Hashtags = []string(hashtags)
		item.Status = model.ApprovalStatus(status)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("コンテンツの走査に失敗しました: %w", err)
	}

	return items, nil
}
