package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/iamgen/inspector/graph"
)

func TestScriptConvention_Sites(t *testing.T) {
	tests := []struct {
		name      string
		language  graph.Language
		source    string
		precision bool
		expected  []string
	}{
		{
			name:     "command dispatched through send",
			language: graph.LanguageJavaScript,
			source: `import { S3Client, CreateBucketCommand } from "@aws-sdk/client-s3";

async function main() {
  const client = new S3Client({ region: "us-east-1" });
  const command = new CreateBucketCommand({ Bucket: "my-bucket-name" });
  await client.send(command);
}
`,
			expected: []string{"command CreateBucket s3 Bucket=my-bucket-name"},
		},
		{
			name:     "client bound through alias chain",
			language: graph.LanguageJavaScript,
			source: `const { DynamoDBClient, PutItemCommand } = require("@aws-sdk/client-dynamodb");
const db = new DynamoDBClient({});
const alias = db;
let other;
other = alias;
async function save(item) {
  await other.send(new PutItemCommand({ TableName: "orders", Item: item }));
}
`,
			expected: []string{"command PutItem dynamodb Item=* TableName=orders"},
		},
		{
			name:     "v2 clients of different services",
			language: graph.LanguageJavaScript,
			source: `const AWS = require("aws-sdk");
const sns = new AWS.SNS();
const sqs = new AWS.SQS();
sns.addPermission({ TopicArn: "arn:aws:sns:us-east-1:123456789012:alerts", Label: "a" });
sqs.addPermission({ QueueUrl: queueUrl, Label: "b" });
`,
			expected: []string{
				"direct AddPermission sns Label=a TopicArn=arn:aws:sns:us-east-1:123456789012:alerts",
				"direct AddPermission sqs Label=b QueueUrl=*",
			},
		},
		{
			name:     "paginators iterated and unused",
			language: graph.LanguageJavaScript,
			source: `import { S3Client, paginateListObjectsV2 } from "@aws-sdk/client-s3";
import { DynamoDBClient, paginateScan } from "@aws-sdk/client-dynamodb";

const s3 = new S3Client({});
const db = new DynamoDBClient({});

async function run() {
  for await (const page of paginateListObjectsV2({ client: s3 }, { Bucket: "archive" })) {
    console.log(page);
  }
  const unused = paginateScan({ client: db }, { TableName: "events" });
}
`,
			expected: []string{
				"paginator ListObjectsV2 s3 Bucket=archive driven",
				"paginator Scan dynamodb TableName=events",
			},
		},
		{
			name:     "precision drops unused paginator",
			language: graph.LanguageJavaScript,
			source: `import { DynamoDBClient, paginateScan } from "@aws-sdk/client-dynamodb";

const db = new DynamoDBClient({});
const unused = paginateScan({ client: db }, { TableName: "events" });
`,
			precision: true,
		},
		{
			name:     "user defined operation names are not call sites",
			language: graph.LanguageJavaScript,
			source: `import { S3Client } from "@aws-sdk/client-s3";

class Repository {
  putObject(item) {
    return item;
  }
}

function getObject(key) {
  return key;
}

const repo = new Repository();
repo.putObject({ Bucket: "x" });
getObject("y");
`,
		},
		{
			name:     "unknown receiver without sdk import",
			language: graph.LanguageJavaScript,
			source: `export function handler(store) {
  return store.putObject({ Bucket: "x" });
}
`,
		},
		{
			name:     "unknown receiver in sdk file",
			language: graph.LanguageJavaScript,
			source: `import { S3Client } from "@aws-sdk/client-s3";

export async function handler(client) {
  await client.putResourcePolicy({ Policy: "{}" });
}
`,
			expected: []string{"direct putResourcePolicy ? Policy={}"},
		},
		{
			name:     "literal and reassigned identifiers",
			language: graph.LanguageJavaScript,
			source: `import { SecretsManagerClient, GetSecretValueCommand } from "@aws-sdk/client-secrets-manager";

async function load(flag) {
  const client = new SecretsManagerClient({});
  let secretId = "prod/db";
  await client.send(new GetSecretValueCommand({ SecretId: secretId }));
  secretId = process.env.SECRET_ID;
  await client.send(new GetSecretValueCommand({ SecretId: secretId }));
  let name = "orders";
  if (flag) {
    name = "archive";
  }
  await client.send(new GetSecretValueCommand({ SecretId: name }));
}
`,
			expected: []string{
				"command GetSecretValue secretsmanager SecretId=prod/db",
				"command GetSecretValue secretsmanager SecretId=*",
				"command GetSecretValue secretsmanager SecretId=*",
			},
		},
		{
			name:     "managed upload",
			language: graph.LanguageJavaScript,
			source: `import { S3Client } from "@aws-sdk/client-s3";
import { Upload } from "@aws-sdk/lib-storage";

const client = new S3Client({});

async function store(body) {
  const upload = new Upload({ client, params: { Bucket: "media", Key: "a.png", Body: body } });
  await upload.done();
}
`,
			expected: []string{
				"composite PutObject s3 Body=* Bucket=media Key=a.png",
				"composite CreateMultipartUpload s3 Body=* Bucket=media Key=a.png",
				"composite UploadPart s3 Body=* Bucket=media Key=a.png",
				"composite CompleteMultipartUpload s3 Body=* Bucket=media Key=a.png",
				"composite AbortMultipartUpload s3 Body=* Bucket=media Key=a.png",
			},
		},
		{
			name:     "waiter function",
			language: graph.LanguageJavaScript,
			source: `import { DynamoDBClient, waitUntilTableExists } from "@aws-sdk/client-dynamodb";

const db = new DynamoDBClient({});

async function ready() {
  await waitUntilTableExists({ client: db, maxWaitTime: 60 }, { TableName: "orders" });
}
`,
			expected: []string{"waiter TableExists dynamodb TableName=orders driven"},
		},
		{
			name:     "document client",
			language: graph.LanguageJavaScript,
			source: `import { DynamoDBClient } from "@aws-sdk/client-dynamodb";
import { DynamoDBDocumentClient, PutCommand } from "@aws-sdk/lib-dynamodb";

async function save() {
  const doc = DynamoDBDocumentClient.from(new DynamoDBClient({}));
  await doc.send(new PutCommand({ TableName: "orders", Item: {} }));
}
`,
			expected: []string{"command PutItem dynamodb Item=* TableName=orders"},
		},
		{
			name:     "typed class member",
			language: graph.LanguageTypeScript,
			source: `import { S3Client, GetObjectCommand } from "@aws-sdk/client-s3";

export class Store {
  private client: S3Client;

  constructor() {
    this.client = new S3Client({});
  }

  async read(key: string) {
    return this.client.send(new GetObjectCommand({ Bucket: "docs", Key: key }));
  }
}
`,
			expected: []string{"command GetObject s3 Bucket=docs Key=*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := analyze(t, tt.language, "index.js", tt.source, WithPrecision(tt.precision))
			assert.Equal(t, tt.expected, describe(file.Sites))
		})
	}
}

func TestScriptConvention_SDK(t *testing.T) {
	tests := []struct {
		name    string
		module  string
		service string
		isSDK   bool
	}{
		{name: "v3 client", module: "@aws-sdk/client-s3", service: "s3", isSDK: true},
		{name: "v3 document", module: "@aws-sdk/lib-dynamodb", service: "dynamodb", isSDK: true},
		{name: "v3 storage", module: "@aws-sdk/lib-storage", service: "s3", isSDK: true},
		{name: "v3 utility", module: "@aws-sdk/credential-providers", isSDK: true},
		{name: "v2 root", module: "aws-sdk", isSDK: true},
		{name: "v2 client", module: "aws-sdk/clients/sqs", service: "sqs", isSDK: true},
		{name: "local module", module: "./clients"},
	}
	convention := &scriptConvention{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ok := convention.sdk(tt.module)
			assert.Equal(t, tt.isSDK, ok)
			assert.Equal(t, tt.service, service)
		})
	}
}
