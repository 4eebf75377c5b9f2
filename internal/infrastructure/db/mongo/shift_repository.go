package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

const collectionShifts = "shifts"

// ShiftRepository stores dates as YYYY-MM-DD strings and times as HH:MM so
// range filters compare lexically and documents stay readable in the shell.
type ShiftRepository struct {
	col *mongo.Collection
}

func NewShiftRepository(db *mongo.Database) *ShiftRepository {
	return &ShiftRepository{col: db.Collection(collectionShifts)}
}

type mongoShift struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Date      string             `bson:"date"`
	Start     string             `bson:"start"`
	End       string             `bson:"end"`
	CreatedAt int64              `bson:"created_at"`
}

// mongoShiftRow is a shift document after the user $lookup.
type mongoShiftRow struct {
	ID     primitive.ObjectID `bson:"_id"`
	UserID primitive.ObjectID `bson:"user_id"`
	Date   string             `bson:"date"`
	Start  string             `bson:"start"`
	End    string             `bson:"end"`
	User   mongoUser          `bson:"user"`
}

func toShiftDoc(s domain.Shift) (mongoShift, error) {
	uid, err := primitive.ObjectIDFromHex(s.UserID)
	if err != nil {
		return mongoShift{}, fmt.Errorf("%w: %q", domain.ErrUserNotFound, s.UserID)
	}
	if err := s.Validate(); err != nil {
		return mongoShift{}, err
	}
	return mongoShift{
		UserID: uid,
		Date:   domain.FormatDate(s.Date),
		Start:  s.Start.String(),
		End:    s.End.String(),
	}, nil
}

func (d mongoShift) toDomain() (domain.Shift, error) {
	date, err := domain.ParseDate(d.Date)
	if err != nil {
		return domain.Shift{}, err
	}
	tr, err := domain.ParseTimeRange(d.Start, d.End)
	if err != nil {
		return domain.Shift{}, err
	}
	return domain.Shift{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Date:      date,
		TimeRange: tr,
	}, nil
}

func (d mongoShiftRow) toEntry() (domain.ShiftEntry, error) {
	s, err := mongoShift{ID: d.ID, UserID: d.UserID, Date: d.Date, Start: d.Start, End: d.End}.toDomain()
	if err != nil {
		return domain.ShiftEntry{}, err
	}
	return domain.ShiftEntry{Shift: s, Username: d.User.Username, Role: d.User.Role}, nil
}

// rangeFilter matches start <= date < end.
func rangeFilter(start, end time.Time) bson.M {
	return bson.M{"date": bson.M{
		"$gte": domain.FormatDate(start),
		"$lt":  domain.FormatDate(end),
	}}
}

// joinPipeline filters shifts and attaches the owning user. Shifts whose user
// no longer exists are dropped by the unwind.
func joinPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}}}},
	}
}

func (r *ShiftRepository) find(ctx context.Context, op string, match bson.M) ([]domain.ShiftEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, joinPipeline(match))
	if err != nil {
		return nil, storeErr(op, err)
	}
	var rows []mongoShiftRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeErr(op, err)
	}

	entries := make([]domain.ShiftEntry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntry()
		if err != nil {
			return nil, storeErr(op, fmt.Errorf("decode shift %s: %w", row.ID.Hex(), err))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *ShiftRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.ShiftEntry, error) {
	return r.find(ctx, "find shifts by range", rangeFilter(start, end))
}

func (r *ShiftRepository) FindByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.ShiftEntry, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []domain.ShiftEntry{}, nil
	}
	filter := rangeFilter(start, end)
	filter["user_id"] = uid
	return r.find(ctx, "find user shifts", filter)
}

func (r *ShiftRepository) FindByDate(ctx context.Context, date time.Time) ([]domain.ShiftEntry, error) {
	return r.find(ctx, "find shifts by date", bson.M{"date": domain.FormatDate(date)})
}

func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*domain.ShiftEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrShiftNotFound
	}
	entries, err := r.find(ctx, "find shift", bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrShiftNotFound
	}
	return &entries[0], nil
}

// Insert relies on the unique {user_id, date} index; a concurrent second
// booking for the same day fails with domain.ErrDuplicateShift.
func (r *ShiftRepository) Insert(ctx context.Context, shift domain.Shift) (*domain.Shift, error) {
	doc, err := toShiftDoc(shift)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC().Unix()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateShift
		}
		return nil, storeErr("insert shift", err)
	}

	out := shift
	out.ID = doc.ID.Hex()
	out.Date = domain.DateOf(shift.Date)
	return &out, nil
}

func (r *ShiftRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, storeErr("delete shift", err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates the unique per-day index and the date index used by
// calendar queries.
func (r *ShiftRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_date"),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
