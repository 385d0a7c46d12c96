package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/careerlanka/careerlink_backend/config"
	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/services"
)

// AccountRepository persists committed accounts across the individuals and
// organizations collections. Uniqueness of email, phone and regNumber is
// enforced by the indexes created in config; inserts racing past the
// duplicate check fail here with services.ErrConflict.
type AccountRepository struct {
	individuals   *mongo.Collection
	organizations *mongo.Collection
}

func NewAccountRepository(db *mongo.Client) *AccountRepository {
	return &AccountRepository{
		individuals:   config.GetCollection(db, "individuals"),
		organizations: config.GetCollection(db, "organizations"),
	}
}

// FindConflict builds an OR-predicate per collection over only the fields
// that collection stores: individuals key on email/phone, organizations
// additionally on name and regNumber.
func (r *AccountRepository) FindConflict(ctx context.Context, q models.DuplicateQuery) (bool, error) {
	var individualOr []bson.M
	if q.Email != "" {
		individualOr = append(individualOr, bson.M{"email": q.Email})
	}
	if q.Phone != "" {
		individualOr = append(individualOr, bson.M{"phone": q.Phone})
	}
	if len(individualOr) > 0 {
		err := r.individuals.FindOne(ctx, bson.M{"$or": individualOr}).Err()
		if err == nil {
			return true, nil
		}
		if err != mongo.ErrNoDocuments {
			return false, err
		}
	}

	orgOr := individualOr
	if q.Name != "" {
		orgOr = append(orgOr, bson.M{"nameLower": strings.ToLower(q.Name)})
	}
	if q.RegNumber != "" {
		orgOr = append(orgOr, bson.M{"regNumber": q.RegNumber})
	}
	if len(orgOr) > 0 {
		err := r.organizations.FindOne(ctx, bson.M{"$or": orgOr}).Err()
		if err == nil {
			return true, nil
		}
		if err != mongo.ErrNoDocuments {
			return false, err
		}
	}
	return false, nil
}

func (r *AccountRepository) CreateIndividual(ctx context.Context, individual *models.Individual) error {
	_, err := r.individuals.InsertOne(ctx, individual)
	if mongo.IsDuplicateKeyError(err) {
		return services.ErrConflict
	}
	return err
}

func (r *AccountRepository) CreateOrganization(ctx context.Context, org *models.Organization) error {
	_, err := r.organizations.InsertOne(ctx, org)
	if mongo.IsDuplicateKeyError(err) {
		return services.ErrConflict
	}
	return err
}

func (r *AccountRepository) FindIndividualByEmail(ctx context.Context, email string) (*models.Individual, error) {
	var individual models.Individual
	err := r.individuals.FindOne(ctx, bson.M{"email": email}).Decode(&individual)
	if err == mongo.ErrNoDocuments {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &individual, nil
}

func (r *AccountRepository) FindOrganizationByEmail(ctx context.Context, email string) (*models.Organization, error) {
	return r.findOrganization(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindOrganizationByName(ctx context.Context, name string) (*models.Organization, error) {
	return r.findOrganization(ctx, bson.M{"nameLower": strings.ToLower(strings.TrimSpace(name))})
}

func (r *AccountRepository) FindOrganizationByID(ctx context.Context, id string) (*models.Organization, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrNotFound
	}
	return r.findOrganization(ctx, bson.M{"_id": objID})
}

func (r *AccountRepository) findOrganization(ctx context.Context, filter bson.M) (*models.Organization, error) {
	var org models.Organization
	err := r.organizations.FindOne(ctx, filter).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *AccountRepository) UpdateOrganizationLogo(ctx context.Context, id, logoHash, logoURL string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return services.ErrNotFound
	}

	update := bson.M{"logoHash": logoHash, "updatedAt": time.Now()}
	if logoURL != "" {
		update["logoUrl"] = logoURL
	}

	result, err := r.organizations.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}
