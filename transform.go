package pushindexer

// Transform converts every commit of the push into an index action targeting
// `index`. The action ID is the commit SHA, and order follows the commits.
//
// NOTE: The event is expected to be validated already, see ValidateEvent.
func Transform(index string, event *PushEvent) []Action {
	if event == nil {
		return []Action{}
	}

	repositoryName := ""

	if event.Repository != nil {
		repositoryName = deref(event.Repository.Name)
	}

	branchName := BranchName(deref(event.Ref))

	actions := make([]Action, 0, len(event.Commits))

	for _, commit := range event.Commits {
		authorName := ""

		if commit.Author != nil {
			authorName = deref(commit.Author.Name)
		}

		actions = append(actions, Action{
			Meta: ActionMeta{
				Index: index,
				ID:    deref(commit.ID),
			},
			Document: CommitDocument{
				RepositoryName: NormalizeEmpty(repositoryName),
				BranchName:     NormalizeEmpty(branchName),
				CommitSHA:      NormalizeEmpty(deref(commit.ID)),
				CommitMessage:  NormalizeEmpty(deref(commit.Message)),
				AuthorName:     NormalizeEmpty(authorName),
				CommitURL:      NormalizeEmpty(deref(commit.URL)),
				AddedFiles:     NormalizeEmpty(JoinList(commit.Added)),
				RemovedFiles:   NormalizeEmpty(JoinList(commit.Removed)),
				ModifiedFiles:  NormalizeEmpty(JoinList(commit.Modified)),
				Date:           deref(commit.Timestamp),
			},
		})
	}

	return actions
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
