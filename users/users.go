package users

import (
	"context"
	"net/http"
	"time"

	"kirana/db"
	"kirana/models"
	"kirana/query"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// roleLookup joins the role document in front of the filter so listings can
// search and match on the role name.
func roleLookup() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "roles",
			"localField":   "role",
			"foreignField": "_id",
			"as":           "role",
		}}},
	}
}

// GetUsers lists users with the role name projected in.
func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	extra := mongo.Pipeline{
		bson.D{{Key: "$project", Value: bson.M{
			"name":      1,
			"email":     1,
			"mobileNo":  1,
			"createdAt": 1,
			"status":    1,
			"role":      bson.M{"$arrayElemAt": bson.A{"$role.name", 0}},
		}}},
	}

	envelope, err := query.FindAll[bson.M](ctx, db.UserCollection, query.Parse(r.URL.Query()), roleLookup(), extra)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, envelope)
}

// GetRoles lists the role documents user listings join against.
func GetRoles(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	envelope, err := query.FindAll[models.Role](ctx, db.RoleCollection, query.Parse(r.URL.Query()), nil, nil)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, envelope)
}

// GetUsersByRole narrows the listing to one role name supplied in the path.
func GetUsersByRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	role := ps.ByName("role")
	if role == "" {
		role = "user"
	}

	initial := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "roles",
			"localField":   "role",
			"foreignField": "_id",
			"as":           "role",
		}}},
		bson.D{{Key: "$unwind", Value: "$role"}},
		bson.D{{Key: "$match", Value: bson.M{"role.name": role}}},
	}
	extra := mongo.Pipeline{
		bson.D{{Key: "$project", Value: bson.M{"role": 0}}},
	}

	envelope, err := query.FindAll[bson.M](ctx, db.UserCollection, query.Parse(r.URL.Query()), initial, extra)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, envelope)
}
