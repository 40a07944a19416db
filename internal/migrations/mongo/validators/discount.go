package validators

import "go.mongodb.org/mongo-driver/bson"

var DiscountCodeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"code", "discount_type", "value", "valid_from", "is_active"},

		"additionalProperties": true,

		"properties": bson.M{
			"code": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"discount_type": bson.M{
				"enum": []string{"percentage", "fixed"},
			},

			"value": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"minimum_order_amount": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}

var VoucherValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"user_id", "code", "voucher_type", "value", "is_active", "is_redeemed"},

		"additionalProperties": true,

		"properties": bson.M{
			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"code": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"voucher_type": bson.M{
				"enum": []string{"percentage", "fixed"},
			},

			"value": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"is_redeemed": bson.M{
				"bsonType": "bool",
			},
		},
	},
}

var DiscountUsageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"code", "booking_reference", "discount_amount"},

		"additionalProperties": true,

		"properties": bson.M{
			"code": bson.M{
				"bsonType":  "string",
				"minLength": 2,
			},

			"booking_reference": bson.M{
				"bsonType":  "string",
				"minLength": 4,
			},

			"discount_amount": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},
		},
	},
}
