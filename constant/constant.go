package constant

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusFailed     JobStatus = "FAILED"
	JobStatusPartial    JobStatus = "PARTIAL"
	JobStatusCompleted  JobStatus = "COMPLETED"
)

// Terminal reports whether no further processing is expected for the status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusPartial || s == JobStatusFailed
}

type JobType string

const (
	JobTypeTranscoder JobType = "transcoder"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

type Genre string

const (
	GenreAction      Genre = "action"
	GenreComedy      Genre = "comedy"
	GenreDrama       Genre = "drama"
	GenreDocumentary Genre = "documentary"
	GenreHorror      Genre = "horror"
	GenreSciFi       Genre = "sci-fi"
	GenreThriller    Genre = "thriller"
	GenreRomance     Genre = "romance"
	GenreAnimation   Genre = "animation"
	GenreFantasy     Genre = "fantasy"
)

var genres = map[Genre]string{
	GenreAction:      "Action",
	GenreComedy:      "Comedy",
	GenreDrama:       "Drama",
	GenreDocumentary: "Documentary",
	GenreHorror:      "Horror",
	GenreSciFi:       "Science Fiction",
	GenreThriller:    "Thriller",
	GenreRomance:     "Romance",
	GenreAnimation:   "Animation",
	GenreFantasy:     "Fantasy",
}

func (g Genre) Valid() bool {
	_, ok := genres[g]
	return ok
}

// Label is the human readable genre name.
func (g Genre) Label() string {
	return genres[g]
}
