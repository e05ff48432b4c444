package model

// ProfileSchema is the JSON Schema a composed profile is checked against
// before normalization. It is deliberately loose: only name and
// designation are required, and every collection accepts each of the
// shapes the normalizer understands.
const ProfileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "designation"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "designation": {"type": "string", "minLength": 1},
    "objective": {"type": "string"},
    "summarized_objective": {"type": "string"},
    "education": {
      "anyOf": [
        {"type": "string"},
        {"type": "array", "items": {"anyOf": [
          {"type": "string"},
          {"type": "object", "properties": {
            "degree": {"type": "string"},
            "institution": {"type": "string"},
            "duration": {"type": "string"}
          }}
        ]}}
      ]
    },
    "skills": {
      "anyOf": [
        {"type": "array", "items": {"type": "string"}},
        {"type": "object", "additionalProperties": {
          "anyOf": [{"type": "string"}, {"type": "array", "items": {"type": "string"}}]
        }}
      ]
    },
    "project_details": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/project"}
    },
    "projects": {
      "type": "array",
      "items": {"$ref": "#/definitions/project"}
    },
    "certifications": {
      "type": "array",
      "items": {"anyOf": [{"type": "string"}, {"type": "object"}]}
    },
    "declaration": {"type": "string"}
  },
  "definitions": {
    "project": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "title": {"type": "string"},
        "role": {"type": "string"},
        "description": {"type": "string"},
        "technology": {"anyOf": [{"type": "string"}, {"type": "array", "items": {"type": "string"}}]},
        "role_played": {"type": "string"}
      }
    }
  }
}`
