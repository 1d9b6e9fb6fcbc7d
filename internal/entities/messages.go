package entities

import (
	"context"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/utils"
)

// messageTypes maps the legacy integer record type to seeded
// message_types codes. Unknown types fall back to "note".
var messageTypes = map[int64]string{
	0: "note",
	1: "message",
	2: "system",
}

var messageTypeLabels = map[string]string{
	"note":    "Internal Note",
	"message": "Message",
	"system":  "System Event",
}

// Messages migrates dispatch_record into messages. Message content is the
// text later pushed through the embedding side channel.
type Messages struct {
	reader   *legacy.Reader
	validate bool
}

// NewMessages creates the messages migrator.
func NewMessages(reader *legacy.Reader, validate bool) *Messages {
	return &Messages{reader: reader, validate: validate}
}

var _ etl.EntityMigrator = (*Messages)(nil)
var _ etl.Seeder = (*Messages)(nil)
var _ etl.EmbeddingSource = (*Messages)(nil)

func (m *Messages) Name() string                 { return "messages" }
func (m *Messages) TargetTable() string          { return models.TableMessages }
func (m *Messages) LegacyIDColumn() string       { return models.ColLegacyRecordID }
func (m *Messages) RegisterKind() etl.LookupKind { return etl.KindMessage }

func (m *Messages) RequiredLookups() []etl.LookupKind {
	return []etl.LookupKind{etl.KindOrder, etl.KindProfile}
}

func (m *Messages) Seed(ctx context.Context, store etl.TargetStore) error {
	return seedReference(ctx, store, models.TableMessageTypes, messageTypeLabels)
}

func (m *Messages) FetchAll(ctx context.Context) ([]etl.LegacyRow, error) {
	records, err := m.reader.Records(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]etl.LegacyRow, len(records))
	for i, rec := range records {
		rows[i] = rec
	}
	return rows, nil
}

func (m *Messages) Transform(row etl.LegacyRow, lookup *etl.Lookup) *etl.MappingResult {
	rec, ok := row.(legacy.Record)
	if !ok {
		res := etl.NewMappingResult(row.Key())
		res.Errorf("unexpected row type %T", row)
		return res
	}

	res := etl.NewMappingResult(rec.ID)

	content := utils.TrimmedString(rec.Text)
	if m.validate && content == "" {
		res.Errorf("content is required")
	}

	orderID := res.ResolveRef(lookup, etl.KindOrder, rec.TargetID.Int64, "order_id", true)
	authorID := res.ResolveRef(lookup, etl.KindProfile, rec.AuthorID.Int64, "author_id", false)

	typeCode, known := messageTypes[rec.Type.Int64]
	if !known {
		if rec.Type.Valid {
			res.Warnf("record type %d not recognized, defaulting to note", rec.Type.Int64)
		}
		typeCode = "note"
	}

	res.Record = &etl.Record{
		Table:        models.TableMessages,
		LegacyColumn: models.ColLegacyRecordID,
		LegacyID:     rec.ID,
		Fields: map[string]any{
			"order_id":        orderID,
			"author_id":       authorID,
			"content":         content,
			"message_type_id": seedID(models.TableMessageTypes, typeCode),
			"is_public":       utils.BoolOrDefault(rec.Public, true),
			"sent_at":         utils.TimeOrNow(rec.CreatedAt),
		},
		Settings: map[string]any{},
		Metadata: etl.Provenance("dispatch_record", rec.ID,
			utils.TimeOrNil(rec.CreatedAt), nil),
	}
	return res
}

// EmbeddingContent queues message text for the knowledge-base consumer.
func (m *Messages) EmbeddingContent(res *etl.MappingResult) (string, bool) {
	content, ok := res.Record.Fields["content"].(string)
	if !ok || content == "" {
		return "", false
	}
	return content, true
}
