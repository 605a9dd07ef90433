package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

const collectionAccounts = "users"

const (
	fieldPasswordHash = "password_hash"
	fieldResetToken   = "reset_password_token"
	fieldResetExpire  = "reset_password_expire"
	fieldEmail        = "email"
	fieldCreatedAt    = "created_at"
)

// publicProjection is the default read shape: no secrets.
var publicProjection = bson.M{fieldPasswordHash: 0, fieldResetToken: 0, fieldResetExpire: 0}

// secretProjection adds the password hash back but still hides recovery state.
var secretProjection = bson.M{fieldResetToken: 0, fieldResetExpire: 0}

// AccountRepository implements ports.AccountRepository on the users
// collection. Email uniqueness is enforced by a unique index.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	Role         string             `bson:"role"`
	Avatar       *mongoAvatar       `bson:"avatar,omitempty"`
	ResetToken   string             `bson:"reset_password_token,omitempty"`
	ResetExpire  *time.Time         `bson:"reset_password_expire,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type mongoAvatar struct {
	PublicID string `bson:"public_id"`
	URL      string `bson:"url"`
}

func toDocument(a *domain.Account) mongoAccount {
	doc := mongoAccount{
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt.UTC(),
	}
	if a.Avatar != nil {
		doc.Avatar = &mongoAvatar{PublicID: a.Avatar.PublicID, URL: a.Avatar.URL}
	}
	return doc
}

func (m *mongoAccount) toDomain() *domain.Account {
	a := &domain.Account{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt.UTC(),
	}
	if m.Avatar != nil {
		a.Avatar = &domain.Avatar{PublicID: m.Avatar.PublicID, URL: m.Avatar.URL}
	}
	if m.ResetToken != "" && m.ResetExpire != nil {
		a.Recovery = &domain.RecoveryState{TokenHash: m.ResetToken, ExpiresAt: m.ResetExpire.UTC()}
	}
	return a
}

// Create inserts a new account; a duplicate email yields domain.ErrEmailTaken.
func (r *AccountRepository) Create(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDocument(acct)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert account: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOneByID(ctx, id, publicProjection)
}

func (r *AccountRepository) FindSecretByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOneByID(ctx, id, secretProjection)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string, withSecret bool) (*domain.Account, error) {
	proj := publicProjection
	if withSecret {
		proj = secretProjection
	}
	return r.findOne(ctx, bson.M{fieldEmail: email}, proj)
}

// List returns every account, oldest first.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(publicProjection).
		SetSort(bson.D{{Key: fieldCreatedAt, Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	out := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Account, error) {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"name": upd.Name, fieldEmail: upd.Email}})
}

func (r *AccountRepository) UpdateAdmin(ctx context.Context, id string, upd domain.AdminUpdate) (*domain.Account, error) {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"name":     upd.Name,
		fieldEmail: upd.Email,
		"role":     string(upd.Role),
	}})
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error) {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"role": string(role)}})
}

func (r *AccountRepository) UpdateAvatar(ctx context.Context, id string, avatar domain.Avatar) (*domain.Account, error) {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"avatar": mongoAvatar{PublicID: avatar.PublicID, URL: avatar.URL},
	}})
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOneByID(ctx, id, bson.M{"$set": bson.M{fieldPasswordHash: passwordHash}})
}

// SetRecovery stores a recovery digest and its expiry in one write.
func (r *AccountRepository) SetRecovery(ctx context.Context, id string, state domain.RecoveryState) error {
	return r.updateOneByID(ctx, id, bson.M{"$set": bson.M{
		fieldResetToken:  state.TokenHash,
		fieldResetExpire: state.ExpiresAt.UTC(),
	}})
}

func (r *AccountRepository) ClearRecovery(ctx context.Context, id string) error {
	return r.updateOneByID(ctx, id, unsetRecovery())
}

// ConsumeRecovery is the compare-and-clear gate of the reset flow: matching
// the digest, checking expiry, replacing the hash and clearing the token
// happen in one findAndModify, so only one caller can win.
func (r *AccountRepository) ConsumeRecovery(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		fieldResetToken:  tokenHash,
		fieldResetExpire: bson.M{"$gt": now.UTC()},
	}
	update := unsetRecovery()
	update["$set"] = bson.M{fieldPasswordHash: passwordHash}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *AccountRepository) ClearExpiredRecovery(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		fieldResetToken:  tokenHash,
		fieldResetExpire: bson.M{"$lte": now.UTC()},
	}
	res, err := r.col.UpdateOne(ctx, filter, unsetRecovery())
	if err != nil {
		return false, fmt.Errorf("clear expired recovery: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the repository relies on.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldEmail, Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: fieldResetToken, Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *AccountRepository) findOneByID(ctx context.Context, id string, proj bson.M) (*domain.Account, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, proj)
}

func (r *AccountRepository) findOne(ctx context.Context, filter, proj bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	err := r.col.FindOne(ctx, filter, options.FindOne().SetProjection(proj)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) updateByID(ctx context.Context, id string, update bson.M) (*domain.Account, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update)
}

func (r *AccountRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Account, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)

	var doc mongoAccount
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrAccountNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) updateOneByID(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func unsetRecovery() bson.M {
	return bson.M{"$unset": bson.M{fieldResetToken: "", fieldResetExpire: ""}}
}

// objectID parses a hex account id. Ids that cannot exist are reported as
// not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrAccountNotFound
	}
	return oid, nil
}
