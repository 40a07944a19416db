package validators

import "go.mongodb.org/mongo-driver/bson"

var CreditBalanceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"user_id", "balance"},

		"additionalProperties": true,

		"properties": bson.M{
			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"balance": bson.M{
				"bsonType": []string{"double", "int", "long"},
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var CreditTransactionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"transaction_type",
			"amount",
			"balance_before",
			"balance_after",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"transaction_type": bson.M{
				"enum": []string{"purchase", "usage"},
			},

			"amount": bson.M{
				"bsonType": []string{"double", "int", "long"},
			},

			"balance_before": bson.M{
				"bsonType": []string{"double", "int", "long"},
			},

			"balance_after": bson.M{
				"bsonType": []string{"double", "int", "long"},
			},

			"payment_method": bson.M{
				"enum": []string{"card", "eft", "credits"},
			},

			"status": bson.M{
				"enum": []string{"pending", "completed"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
