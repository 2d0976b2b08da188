package validators

import "go.mongodb.org/mongo-driver/bson"

var DelegationAssignmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"secretary_id",
			"employee_id",
			"is_active",
			"assigned_by_id",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"secretary_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"employee_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"assigned_by_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"deactivated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
