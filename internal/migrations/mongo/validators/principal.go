package validators

import "go.mongodb.org/mongo-driver/bson"

var PrincipalValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"role",
			"active",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType": "string",
			},

			"role": bson.M{
				"bsonType": "string",
				"enum": []string{
					"host",
					"employee",
					"secretary",
					"admin",
				},
			},

			"active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
