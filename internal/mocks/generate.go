package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/athlete --output domain/athlete --outpkg athletemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/candidate --output domain/candidate --outpkg candidatemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/gallery --output domain/gallery --outpkg gallerymock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/review --output domain/review --outpkg reviewmock --filename repository_mock.go
