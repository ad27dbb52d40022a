package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/EgorLis/mdshare/internal/domain"
)

const docColumns = "id, user_id, alias, file_name, storage_path, is_public, size_bytes, content_sha256, version, created_at, updated_at"

func scanDoc(row interface{ Scan(...any) error }) (domain.Document, error) {
	var d domain.Document
	err := row.Scan(
		&d.ID, &d.OwnerID, &d.Alias, &d.FileName, &d.StoragePath, &d.Public,
		&d.SizeBytes, &d.SHA256, &d.Version, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (r *PGRepo) docsTable() string { return fmt.Sprintf("%s.markdown_documents", r.schema) }

func (r *PGRepo) CreateDoc(ctx context.Context, meta domain.Document) (domain.Document, error) {
	q := r.qb().Insert(r.docsTable()).
		Columns("user_id", "alias", "file_name", "storage_path", "is_public", "size_bytes", "content_sha256").
		Values(meta.OwnerID, meta.Alias, meta.FileName, meta.StoragePath, meta.Public, meta.SizeBytes, meta.SHA256).
		Suffix("RETURNING " + docColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateDoc", sqlStr, args)

	start := time.Now()
	out, err := scanDoc(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateDoc scan error after %s: %v", time.Since(start), err)
		return domain.Document{}, mapPgErr(err)
	}
	r.logger.Printf("CreateDoc ok in %s id=%s file=%q", time.Since(start), out.ID, out.FileName)
	return out, nil
}

// DocByID resolves the row under the visibility rule: forUser == nil means
// an anonymous request (public rows only), otherwise owner OR public.
func (r *PGRepo) DocByID(ctx context.Context, id domain.DocID, forUser *domain.User) (domain.Document, error) {
	sb := r.qb().Select(
		"d.id", "d.user_id", "d.alias", "d.file_name", "d.storage_path", "d.is_public",
		"d.size_bytes", "d.content_sha256", "d.version", "d.created_at", "d.updated_at",
	).From(r.docsTable() + " d").Where(sq.Eq{"d.id": id})

	if forUser != nil {
		sb = sb.Where(sq.Or{
			sq.Eq{"d.user_id": forUser.ID},
			sq.Eq{"d.is_public": true},
		})
	} else {
		sb = sb.Where(sq.Eq{"d.is_public": true})
	}

	sqlStr, args, _ := sb.ToSql()
	r.logSQL("DocByID", sqlStr, args)

	start := time.Now()
	d, err := scanDoc(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("DocByID scan error after %s: %v", time.Since(start), err)
		return domain.Document{}, mapPgErr(err)
	}
	r.logger.Printf("DocByID ok in %s id=%s", time.Since(start), d.ID)
	return d, nil
}

// DocUpdate mutates alias/public and, when upd.ContentChanged, the content
// columns. version and updated_at always move so ETags change.
func (r *PGRepo) DocUpdate(ctx context.Context, id domain.DocID, owner domain.UserID, upd domain.DocUpdate) (domain.Document, error) {
	set := map[string]any{
		"version":    sq.Expr("version + 1"),
		"updated_at": sq.Expr("now()"),
	}
	if upd.Alias != nil {
		set["alias"] = *upd.Alias
	}
	if upd.Public != nil {
		set["is_public"] = *upd.Public
	}
	if upd.ContentChanged {
		set["size_bytes"] = upd.SizeBytes
		set["content_sha256"] = upd.SHA256
	}

	q := r.qb().Update(r.docsTable()).
		SetMap(set).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"user_id": owner}}).
		Suffix("RETURNING " + docColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DocUpdate", sqlStr, args)

	start := time.Now()
	d, err := scanDoc(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("DocUpdate scan error after %s: %v", time.Since(start), err)
		return domain.Document{}, mapPgErr(err)
	}
	r.logger.Printf("DocUpdate ok in %s id=%s version=%d", time.Since(start), d.ID, d.Version)
	return d, nil
}

func (r *PGRepo) DocDelete(ctx context.Context, id domain.DocID, owner domain.UserID) error {
	q := r.qb().Delete(r.docsTable()).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"user_id": owner}})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DocDelete", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DocDelete exec error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.Printf("DocDelete no rows affected in %s (doc not found or not owner)", time.Since(start))
		return domain.ErrNotFound
	}
	r.logger.Printf("DocDelete ok in %s rows=%d", time.Since(start), tag.RowsAffected())
	return nil
}

// DocsList returns documents visible to me (own + public; public only when
// me == nil), optionally narrowed to one owner login and one column filter.
func (r *PGRepo) DocsList(ctx context.Context, me *domain.User, f domain.ListFilter) ([]domain.Document, error) {
	users := fmt.Sprintf("%s.users u", r.schema)

	sb := r.qb().Select(
		"d.id", "d.user_id", "d.alias", "d.file_name", "d.storage_path", "d.is_public",
		"d.size_bytes", "d.content_sha256", "d.version", "d.created_at", "d.updated_at",
	).From(r.docsTable() + " d").
		Join(users + " ON u.id = d.user_id")

	if me != nil {
		sb = sb.Where(sq.Or{
			sq.Eq{"d.user_id": me.ID},
			sq.Eq{"d.is_public": true},
		})
	} else {
		sb = sb.Where(sq.Eq{"d.is_public": true})
	}

	if f.Login != "" {
		sb = sb.Where(sq.Eq{"u.login": f.Login})
	}

	// column filters, allowlisted
	switch f.Key {
	case "alias":
		sb = sb.Where(sq.Eq{"d.alias": f.Value})
	case "file_name":
		sb = sb.Where(sq.Eq{"d.file_name": f.Value})
	case "":
	default:
		// unknown key is ignored
	}

	switch f.Sort {
	case domain.SortByNameAsc:
		sb = sb.OrderBy("d.file_name ASC", "d.created_at DESC")
	case domain.SortByNameDesc:
		sb = sb.OrderBy("d.file_name DESC", "d.created_at DESC")
	case domain.SortByCreatedAsc:
		sb = sb.OrderBy("d.created_at ASC", "d.file_name ASC")
	case domain.SortByCreatedDesc, "":
		sb = sb.OrderBy("d.created_at DESC", "d.file_name ASC")
	}

	limit := f.Limit
	if limit == 0 {
		limit = 50
	}
	limit = min(max(limit, 1), 1000)
	sb = sb.Limit(uint64(limit))

	sqlStr, args, _ := sb.ToSql()
	r.logSQL("DocsList", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DocsList query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	var res []domain.Document
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			r.logger.Printf("DocsList scan error: %v", err)
			return nil, err
		}
		res = append(res, d)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("DocsList rows error: %v", err)
		return nil, err
	}
	r.logger.Printf("DocsList ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}
