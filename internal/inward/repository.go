package inward

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candor-retail/candor-backend/internal/platform/db"
	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for the inward
// workflow. Each company owns a parallel table set; the prefix comes
// from the validated Company enum, never from request text.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func txTable(c Company) string  { return c.TablePrefix() + "_transactions_v2" }
func artTable(c Company) string { return c.TablePrefix() + "_articles_v2" }
func boxTable(c Company) string { return c.TablePrefix() + "_boxes_v2" }
func skuTable(c Company) string { return c.TablePrefix() + "sku" }

const recordColumns = `transaction_no, entry_date, vehicle_number, transporter_name, lr_number,
vendor_supplier_name, customer_party_name, source_location, destination_location,
challan_number, invoice_number, po_number, grn_number, grn_quantity, system_grn_date,
purchased_by, service_invoice_number, dn_number, approval_authority,
total_amount, tax_amount, discount_amount, po_quantity, remark, currency, status,
approved_by, approved_at`

const articleColumns = `id, transaction_no, sku_id, item_description, item_category, sub_category,
material_type, quality_grade, uom, po_quantity, units, quantity_units, net_weight, total_weight,
po_weight, lot_number, manufacturing_date, expiry_date, unit_rate, total_amount, carton_weight`

const boxColumnsInward = `id, transaction_no, article_description, box_number, net_weight,
gross_weight, lot_number, count, box_id`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.TransactionNo, &r.EntryDate, &r.VehicleNumber, &r.TransporterName,
		&r.LRNumber, &r.VendorSupplierName, &r.CustomerPartyName, &r.SourceLocation,
		&r.DestinationLocation, &r.ChallanNumber, &r.InvoiceNumber, &r.PONumber,
		&r.GRNNumber, &r.GRNQuantity, &r.SystemGRNDate, &r.PurchasedBy,
		&r.ServiceInvoiceNumber, &r.DNNumber, &r.ApprovalAuthority, &r.TotalAmount,
		&r.TaxAmount, &r.DiscountAmount, &r.POQuantity, &r.Remark, &r.Currency,
		&r.Status, &r.ApprovedBy, &r.ApprovedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, fmt.Errorf("inward record: %w", httpx.ErrNotFound)
	}
	return r, err
}

func scanArticle(row pgx.Row) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.TransactionNo, &a.SKUID, &a.ItemDescription, &a.ItemCategory,
		&a.SubCategory, &a.MaterialType, &a.QualityGrade, &a.UOM, &a.POQuantity, &a.Units,
		&a.QuantityUnits, &a.NetWeight, &a.TotalWeight, &a.POWeight, &a.LotNumber,
		&a.Manufacturing, &a.Expiry, &a.UnitRate, &a.TotalAmount, &a.CartonWeight)
	return a, err
}

func scanInwardBox(row pgx.Row) (Box, error) {
	var b Box
	err := row.Scan(&b.ID, &b.TransactionNo, &b.ArticleDescription, &b.BoxNumber,
		&b.NetWeight, &b.GrossWeight, &b.LotNumber, &b.Count, &b.BoxID)
	return b, err
}

// WithTx wraps fn so record, article and box writes commit or roll back
// together.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &inwardTxRepo{tx: tx})
	})
}

// GetRecord returns a record header.
func (r *Repository) GetRecord(ctx context.Context, company Company, transactionNo string) (Record, error) {
	return scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM `+txTable(company)+` WHERE transaction_no = $1`, transactionNo))
}

// Searchable text columns for the list endpoint's free search.
var recordSearchFields = []string{
	"t.transaction_no", "t.vehicle_number", "t.transporter_name", "t.lr_number",
	"t.vendor_supplier_name", "t.customer_party_name", "t.source_location",
	"t.destination_location", "t.challan_number", "t.invoice_number", "t.po_number",
	"t.grn_number", "t.purchased_by", "t.remark", "t.currency",
	"a.item_description", "a.item_category", "a.sub_category", "a.material_type",
	"a.uom", "a.lot_number", "b.article_description", "b.lot_number", "b.box_id",
}

var recordSortColumns = map[string]string{
	"entry_date":     "COALESCE(entry_date, system_grn_date)",
	"transaction_no": "transaction_no",
	"invoice_number": "invoice_number",
	"po_number":      "po_number",
}

// ListRecords returns a filtered page of record summaries with article
// descriptions and quantities aggregated per transaction.
func (r *Repository) ListRecords(ctx context.Context, company Company, filters ListFilters) ([]Summary, int, error) {
	where := []string{"1=1"}
	var args []any

	if filters.Search != "" {
		term := "%" + strings.TrimSpace(filters.Search) + "%"
		args = append(args, term)
		ph := "$" + strconv.Itoa(len(args))
		conds := make([]string, 0, len(recordSearchFields))
		for _, f := range recordSearchFields {
			conds = append(conds, "COALESCE("+f+", '') ILIKE "+ph)
		}
		where = append(where, "("+strings.Join(conds, " OR ")+")")
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where = append(where, "t.status = $"+strconv.Itoa(len(args)))
	}
	switch filters.GRNStatus {
	case "completed":
		where = append(where, "t.grn_number IS NOT NULL AND TRIM(t.grn_number) != ''")
	case "pending":
		where = append(where, "(t.grn_number IS NULL OR TRIM(t.grn_number) = '')")
	}
	dateExpr := "CAST(COALESCE(t.entry_date, t.system_grn_date) AS DATE)"
	if filters.FromDate != nil {
		args = append(args, *filters.FromDate)
		where = append(where, dateExpr+" >= $"+strconv.Itoa(len(args))+"::date")
	}
	if filters.ToDate != nil {
		args = append(args, *filters.ToDate)
		where = append(where, dateExpr+" <= $"+strconv.Itoa(len(args))+"::date")
	}
	whereSQL := strings.Join(where, " AND ")

	fromSQL := ` FROM ` + txTable(company) + ` t
LEFT JOIN ` + artTable(company) + ` a ON t.transaction_no = a.transaction_no
LEFT JOIN ` + boxTable(company) + ` b ON t.transaction_no = b.transaction_no
WHERE ` + whereSQL

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT t.transaction_no)`+fromSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := recordSortColumns[filters.SortBy]
	if !ok {
		sortCol = recordSortColumns["entry_date"]
	}
	sortDir := "DESC"
	if strings.EqualFold(filters.SortDir, "asc") {
		sortDir = "ASC"
	}

	offset := (filters.Page - 1) * filters.PerPage
	args = append(args, filters.PerPage, offset)
	limitPH := "$" + strconv.Itoa(len(args)-1)
	offsetPH := "$" + strconv.Itoa(len(args))

	query := `WITH filtered AS (
	SELECT DISTINCT t.transaction_no` + fromSQL + `
)
SELECT
	t.transaction_no,
	COALESCE(t.entry_date, t.system_grn_date) AS entry_date,
	t.status, t.invoice_number, t.po_number,
	t.vendor_supplier_name, t.customer_party_name, t.total_amount,
	COALESCE(
		STRING_AGG(DISTINCT a.item_description, ', ' ORDER BY a.item_description),
		STRING_AGG(DISTINCT b.article_description, ', ' ORDER BY b.article_description)
	) AS item_descriptions,
	STRING_AGG(DISTINCT CONCAT(a.quantity_units::text, ' ', COALESCE(a.uom, '')), ', ')
		FILTER (WHERE a.quantity_units IS NOT NULL) AS quantities,
	COUNT(DISTINCT b.box_number) AS box_count
FROM ` + txTable(company) + ` t
INNER JOIN filtered f ON t.transaction_no = f.transaction_no
LEFT JOIN ` + artTable(company) + ` a ON t.transaction_no = a.transaction_no
LEFT JOIN ` + boxTable(company) + ` b ON t.transaction_no = b.transaction_no
GROUP BY t.transaction_no, t.entry_date, t.system_grn_date, t.status, t.invoice_number,
	t.po_number, t.vendor_supplier_name, t.customer_party_name, t.total_amount
ORDER BY ` + sortCol + ` ` + sortDir + ` NULLS LAST, t.transaction_no DESC
LIMIT ` + limitPH + ` OFFSET ` + offsetPH

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		var descs, quantities *string
		var boxCount int
		if err := rows.Scan(&s.TransactionNo, &s.EntryDate, &s.Status, &s.InvoiceNumber,
			&s.PONumber, &s.VendorSupplierName, &s.CustomerPartyName, &s.TotalAmount,
			&descs, &quantities, &boxCount); err != nil {
			return nil, 0, err
		}
		s.ItemDescriptions = splitAgg(descs)
		if quantities != nil {
			s.QuantitiesAndUOMs = splitAgg(quantities)
		} else if boxCount > 0 {
			s.QuantitiesAndUOMs = []string{strconv.Itoa(boxCount) + " BOX"}
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

func splitAgg(s *string) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, part := range strings.Split(*s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Articles returns a record's article lines in insertion order.
func (r *Repository) Articles(ctx context.Context, company Company, transactionNo string) ([]Article, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+articleColumns+` FROM `+artTable(company)+` WHERE transaction_no = $1 ORDER BY id`,
		transactionNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Boxes returns a record's boxes grouped by article.
func (r *Repository) Boxes(ctx context.Context, company Company, transactionNo string) ([]Box, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+boxColumnsInward+` FROM `+boxTable(company)+
			` WHERE transaction_no = $1 ORDER BY article_description, box_number`,
		transactionNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var boxes []Box
	for rows.Next() {
		b, err := scanInwardBox(rows)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	return boxes, rows.Err()
}

// LookupSKU matches an item description case-insensitively.
func (r *Repository) LookupSKU(ctx context.Context, company Company, itemDescription string) (SKU, error) {
	var sku SKU
	err := r.pool.QueryRow(ctx,
		`SELECT id, item_description, material_type, item_category, sub_category
		FROM `+skuTable(company)+` WHERE item_description ILIKE $1 LIMIT 1`,
		itemDescription).Scan(&sku.ID, &sku.ItemDescription, &sku.MaterialType,
		&sku.ItemCategory, &sku.SubCategory)
	if errors.Is(err, pgx.ErrNoRows) {
		return SKU{}, fmt.Errorf("sku: %w", httpx.ErrNotFound)
	}
	return sku, err
}

// DistinctMaterialTypes returns all material types in the directory.
func (r *Repository) DistinctMaterialTypes(ctx context.Context, company Company) ([]string, error) {
	return r.distinct(ctx,
		`SELECT DISTINCT material_type FROM `+skuTable(company)+
			` WHERE material_type IS NOT NULL ORDER BY material_type`)
}

// DistinctItemCategories returns categories under a material type.
func (r *Repository) DistinctItemCategories(ctx context.Context, company Company, materialType string) ([]string, error) {
	return r.distinct(ctx,
		`SELECT DISTINCT item_category FROM `+skuTable(company)+
			` WHERE UPPER(material_type) = UPPER($1) AND item_category IS NOT NULL ORDER BY item_category`,
		materialType)
}

// DistinctSubCategories returns sub categories under a category.
func (r *Repository) DistinctSubCategories(ctx context.Context, company Company, materialType, itemCategory string) ([]string, error) {
	return r.distinct(ctx,
		`SELECT DISTINCT sub_category FROM `+skuTable(company)+
			` WHERE UPPER(material_type) = UPPER($1) AND UPPER(item_category) = UPPER($2)
			AND sub_category IS NOT NULL ORDER BY sub_category`,
		materialType, itemCategory)
}

func (r *Repository) distinct(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// SearchSKUs lists directory rows matching the query's hierarchy filters
// and description search, with the unpaged total.
func (r *Repository) SearchSKUs(ctx context.Context, company Company, query SKUQuery) ([]SKU, int, error) {
	where := []string{"item_description IS NOT NULL"}
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if query.MaterialType != "" {
		add("UPPER(material_type) = UPPER($%d)", query.MaterialType)
	}
	if query.ItemCategory != "" {
		add("UPPER(item_category) = UPPER($%d)", query.ItemCategory)
	}
	if query.SubCategory != "" {
		add("UPPER(sub_category) = UPPER($%d)", query.SubCategory)
	}
	if s := strings.TrimSpace(query.Search); s != "" {
		add("LOWER(item_description) LIKE $%d", "%"+strings.ToLower(s)+"%")
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT item_description) FROM `+skuTable(company)+` WHERE `+whereSQL,
		args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, query.Limit, query.Offset)
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT id, item_description, material_type, item_category, sub_category
		FROM `+skuTable(company)+` WHERE `+whereSQL+`
		ORDER BY item_description
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var skus []SKU
	for rows.Next() {
		var sku SKU
		if err := rows.Scan(&sku.ID, &sku.ItemDescription, &sku.MaterialType,
			&sku.ItemCategory, &sku.SubCategory); err != nil {
			return nil, 0, err
		}
		skus = append(skus, sku)
	}
	return skus, total, rows.Err()
}

// FindSKU resolves a description with optional hierarchy qualifiers.
func (r *Repository) FindSKU(ctx context.Context, company Company, key SKUKey) (SKU, error) {
	where := []string{"UPPER(item_description) = UPPER($1)"}
	args := []any{key.ItemDescription}
	add := func(cond string, val string) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if key.MaterialType != "" {
		add("UPPER(material_type) = UPPER($%d)", key.MaterialType)
	}
	if key.ItemCategory != "" {
		add("UPPER(item_category) = UPPER($%d)", key.ItemCategory)
	}
	if key.SubCategory != "" {
		add("UPPER(sub_category) = UPPER($%d)", key.SubCategory)
	}

	var sku SKU
	err := r.pool.QueryRow(ctx,
		`SELECT id, item_description, material_type, item_category, sub_category
		FROM `+skuTable(company)+` WHERE `+strings.Join(where, " AND ")+` LIMIT 1`,
		args...).Scan(&sku.ID, &sku.ItemDescription, &sku.MaterialType,
		&sku.ItemCategory, &sku.SubCategory)
	if errors.Is(err, pgx.ErrNoRows) {
		return SKU{}, fmt.Errorf("sku %q: %w", key.ItemDescription, httpx.ErrNotFound)
	}
	return sku, err
}

type inwardTxRepo struct {
	tx pgx.Tx
}

// InsertRecord writes a header; a duplicate transaction_no reports
// inserted=false rather than an error so the service can raise a
// conflict.
func (t *inwardTxRepo) InsertRecord(ctx context.Context, company Company, rec Record) (bool, error) {
	tag, err := t.tx.Exec(ctx,
		`INSERT INTO `+txTable(company)+` (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		ON CONFLICT (transaction_no) DO NOTHING`,
		recordArgs(rec)...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func recordArgs(r Record) []any {
	return []any{r.TransactionNo, r.EntryDate, r.VehicleNumber, r.TransporterName, r.LRNumber,
		r.VendorSupplierName, r.CustomerPartyName, r.SourceLocation, r.DestinationLocation,
		r.ChallanNumber, r.InvoiceNumber, r.PONumber, r.GRNNumber, r.GRNQuantity, r.SystemGRNDate,
		r.PurchasedBy, r.ServiceInvoiceNumber, r.DNNumber, r.ApprovalAuthority,
		r.TotalAmount, r.TaxAmount, r.DiscountAmount, r.POQuantity, r.Remark, r.Currency,
		r.Status, r.ApprovedBy, r.ApprovedAt}
}

// UpdateRecord rewrites every mutable header column.
func (t *inwardTxRepo) UpdateRecord(ctx context.Context, company Company, rec Record) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE `+txTable(company)+` SET
		entry_date = $2, vehicle_number = $3, transporter_name = $4, lr_number = $5,
		vendor_supplier_name = $6, customer_party_name = $7, source_location = $8,
		destination_location = $9, challan_number = $10, invoice_number = $11, po_number = $12,
		grn_number = $13, grn_quantity = $14, system_grn_date = $15, purchased_by = $16,
		service_invoice_number = $17, dn_number = $18, approval_authority = $19,
		total_amount = $20, tax_amount = $21, discount_amount = $22, po_quantity = $23,
		remark = $24, currency = $25, status = $26, approved_by = $27, approved_at = $28
		WHERE transaction_no = $1`,
		recordArgs(rec)...)
	return err
}

func (t *inwardTxRepo) RecordHeader(ctx context.Context, company Company, transactionNo string) (Record, error) {
	return scanRecord(t.tx.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM `+txTable(company)+` WHERE transaction_no = $1`, transactionNo))
}

func (t *inwardTxRepo) DeleteRecord(ctx context.Context, company Company, transactionNo string) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM `+txTable(company)+` WHERE transaction_no = $1`, transactionNo)
	return tag.RowsAffected(), err
}

func (t *inwardTxRepo) Articles(ctx context.Context, company Company, transactionNo string) ([]Article, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+articleColumns+` FROM `+artTable(company)+` WHERE transaction_no = $1 ORDER BY id`,
		transactionNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (t *inwardTxRepo) InsertArticles(ctx context.Context, company Company, articles []Article) error {
	for _, a := range articles {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO `+artTable(company)+` (transaction_no, sku_id, item_description,
			item_category, sub_category, material_type, quality_grade, uom, po_quantity, units,
			quantity_units, net_weight, total_weight, po_weight, lot_number, manufacturing_date,
			expiry_date, unit_rate, total_amount, carton_weight)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
			ON CONFLICT (transaction_no, item_description) DO NOTHING`,
			a.TransactionNo, a.SKUID, a.ItemDescription, a.ItemCategory, a.SubCategory,
			a.MaterialType, a.QualityGrade, a.UOM, a.POQuantity, a.Units, a.QuantityUnits,
			a.NetWeight, a.TotalWeight, a.POWeight, a.LotNumber, a.Manufacturing, a.Expiry,
			a.UnitRate, a.TotalAmount, a.CartonWeight)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *inwardTxRepo) UpdateArticle(ctx context.Context, company Company, a Article) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE `+artTable(company)+` SET sku_id = $3, item_category = $4, sub_category = $5,
		material_type = $6, quality_grade = $7, uom = $8, po_quantity = $9, units = $10,
		quantity_units = $11, net_weight = $12, total_weight = $13, po_weight = $14,
		lot_number = $15, manufacturing_date = $16, expiry_date = $17, unit_rate = $18,
		total_amount = $19, carton_weight = $20
		WHERE transaction_no = $1 AND item_description = $2`,
		a.TransactionNo, a.ItemDescription, a.SKUID, a.ItemCategory, a.SubCategory,
		a.MaterialType, a.QualityGrade, a.UOM, a.POQuantity, a.Units, a.QuantityUnits,
		a.NetWeight, a.TotalWeight, a.POWeight, a.LotNumber, a.Manufacturing, a.Expiry,
		a.UnitRate, a.TotalAmount, a.CartonWeight)
	return err
}

func (t *inwardTxRepo) DeleteArticles(ctx context.Context, company Company, transactionNo string) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM `+artTable(company)+` WHERE transaction_no = $1`, transactionNo)
	return tag.RowsAffected(), err
}

func (t *inwardTxRepo) Boxes(ctx context.Context, company Company, transactionNo string) ([]Box, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+boxColumnsInward+` FROM `+boxTable(company)+
			` WHERE transaction_no = $1 ORDER BY article_description, box_number`,
		transactionNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var boxes []Box
	for rows.Next() {
		b, err := scanInwardBox(rows)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	return boxes, rows.Err()
}

func (t *inwardTxRepo) InsertBoxes(ctx context.Context, company Company, boxes []Box) error {
	for _, b := range boxes {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO `+boxTable(company)+` (transaction_no, article_description, box_number,
			net_weight, gross_weight, lot_number, count, box_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (transaction_no, article_description, box_number) DO NOTHING`,
			b.TransactionNo, b.ArticleDescription, b.BoxNumber, b.NetWeight, b.GrossWeight,
			b.LotNumber, b.Count, b.BoxID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *inwardTxRepo) UpdateBox(ctx context.Context, company Company, b Box) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE `+boxTable(company)+` SET net_weight = $4, gross_weight = $5, lot_number = $6,
		count = $7, box_id = $8
		WHERE transaction_no = $1 AND article_description = $2 AND box_number = $3`,
		b.TransactionNo, b.ArticleDescription, b.BoxNumber, b.NetWeight, b.GrossWeight,
		b.LotNumber, b.Count, b.BoxID)
	return err
}

func (t *inwardTxRepo) DeleteBoxes(ctx context.Context, company Company, transactionNo string) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM `+boxTable(company)+` WHERE transaction_no = $1`, transactionNo)
	return tag.RowsAffected(), err
}

// EnsureSKU upserts a directory row so articles can always join to it.
func (t *inwardTxRepo) EnsureSKU(ctx context.Context, company Company, sku SKU) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO `+skuTable(company)+` (id, item_description, material_type, item_category, sub_category)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			item_description = EXCLUDED.item_description,
			material_type = EXCLUDED.material_type,
			item_category = EXCLUDED.item_category,
			sub_category = EXCLUDED.sub_category`,
		sku.ID, sku.ItemDescription, sku.MaterialType, sku.ItemCategory, sku.SubCategory)
	return err
}

// InsertBoxEditLogs writes one audit row per changed field. The log
// table is shared across companies.
func (t *inwardTxRepo) InsertBoxEditLogs(ctx context.Context, log BoxEditLog) (int, error) {
	for _, change := range log.Changes {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO box_edit_logs (email_id, description, transaction_no, box_id,
			field_name, old_value, new_value, edited_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			log.EmailID, change.EditDescription(), log.TransactionNo, log.BoxID,
			change.FieldName, change.OldValue, change.NewValue, log.EditedAt)
		if err != nil {
			return 0, err
		}
	}
	return len(log.Changes), nil
}
