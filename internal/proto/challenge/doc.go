// Package challenge holds the generated gRPC stubs for the challenge service.
package challenge

//go:generate protoc -I ../../../proto --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative mindcraft/challenge/v1/challenge.proto
